package adapthttp

import (
	"net/http"

	"rations/internal/domain"
)

func (s *Server) handleListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	f, err := listFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	items, err := s.directory.Beneficiaries(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleListShops(w http.ResponseWriter, r *http.Request) {
	items, err := s.directory.Shops(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var (
		out any
		err error
	)
	switch p := sess.Principal.(type) {
	case domain.BeneficiaryPrincipal:
		out, err = s.dashboards.ForBeneficiary(r.Context(), p.Beneficiary.ID)
	case domain.DealerPrincipal:
		out, err = s.dashboards.ForDealer(r.Context(), p.Shop.ID)
	case domain.AdminPrincipal:
		out, err = s.dashboards.ForAdmin(r.Context())
	default:
		err = errUnauthorized
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"role": sess.Role, "dashboard": out})
}
