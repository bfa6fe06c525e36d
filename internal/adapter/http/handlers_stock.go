package adapthttp

import (
	"net/http"

	"rations/internal/domain"
)

// levelsRequest is an absolute stock edit. Every item must be present.
type levelsRequest struct {
	WheatKg        *float64 `json:"wheatKg" validate:"required,gte=0"`
	RiceKg         *float64 `json:"riceKg" validate:"required,gte=0"`
	SugarKg        *float64 `json:"sugarKg" validate:"required,gte=0"`
	KeroseneLiters *float64 `json:"keroseneLiters" validate:"required,gte=0"`
}

func (s *Server) handleSetStock(w http.ResponseWriter, r *http.Request) {
	shopID, err := idParam(r, "shopID")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var req levelsRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	stock, err := s.ledger.SetLevels(r.Context(), shopID, domain.Quantities{
		Wheat:    *req.WheatKg,
		Rice:     *req.RiceKg,
		Sugar:    *req.SugarKg,
		Kerosene: *req.KeroseneLiters,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stock)
}

func (s *Server) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	shopID, err := idParam(r, "shopID")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var deltas domain.Quantities
	if err := parseJSON(r, &deltas); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	stock, err := s.ledger.Adjust(r.Context(), shopID, deltas)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stock)
}

func (s *Server) handleGetStock(w http.ResponseWriter, r *http.Request) {
	shopID, err := idParam(r, "shopID")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if _, err := scope(sessionFrom(r.Context()), domain.Filter{ShopID: shopID}); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	stock, err := s.ledger.Get(r.Context(), shopID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stock)
}

func (s *Server) handleListStocks(w http.ResponseWriter, r *http.Request) {
	f, err := listFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if p, ok := sessionFrom(r.Context()).Principal.(domain.BeneficiaryPrincipal); ok {
		f.ShopID = p.Beneficiary.ShopID
	}

	stocks, err := s.directory.Stocks(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": stocks})
}
