package adapthttp

import (
	"fmt"
	"net/http"

	"rations/internal/domain"
)

type distributeRequest struct {
	RationCardNumber string  `json:"rationCardNumber" validate:"required"`
	Wheat            float64 `json:"wheat"`
	Rice             float64 `json:"rice"`
	Sugar            float64 `json:"sugar"`
	Kerosene         float64 `json:"kerosene"`
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	shopID, err := idParam(r, "shopID")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var req distributeRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.distributions.Distribute(r.Context(), shopID, req.RationCardNumber, domain.Quantities{
		Wheat:    req.Wheat,
		Rice:     req.Rice,
		Sugar:    req.Sugar,
		Kerosene: req.Kerosene,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListDistributions(w http.ResponseWriter, r *http.Request) {
	f, err := listFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	items, err := s.directory.Distributions(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleHistory lists one beneficiary's records. Dealers only see
// beneficiaries of their own shop.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "beneficiaryID")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	f, err := scope(sessionFrom(r.Context()), domain.Filter{BeneficiaryID: id})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	visible, err := s.directory.Beneficiaries(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if len(visible) == 0 {
		s.writeServiceError(w, r, fmt.Errorf("beneficiary %d: %w", id, domain.ErrNotFound))
		return
	}

	records, err := s.distributions.History(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": records})
}

func (s *Server) handleEntitlement(w http.ResponseWriter, r *http.Request) {
	n := intQuery(r, "familySize", 0)
	if n == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: familySize must be a positive integer", domain.ErrInvalidInput))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"familySize": n, "entitlement": domain.Entitlement(n)})
}
