package adapthttp

import (
	"net/http"

	"rations/internal/domain"
)

func (s *Server) handleFileComplaint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text" validate:"required"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, ok := sessionFrom(r.Context()).Principal.(domain.BeneficiaryPrincipal)
	if !ok {
		writeError(w, http.StatusForbidden, errForbidden)
		return
	}
	c, err := s.complaints.File(r.Context(), p.Beneficiary.ID, p.Beneficiary.ShopID, req.Text)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleResolveComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "complaintID")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	c, err := s.complaints.Resolve(r.Context(), id, sessionFrom(r.Context()).PrincipalID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleListComplaints(w http.ResponseWriter, r *http.Request) {
	f, err := listFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	items, err := s.directory.Complaints(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "complaintID")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	c, err := s.complaints.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if _, err := scope(sessionFrom(r.Context()), domain.Filter{ShopID: c.ShopID, BeneficiaryID: c.BeneficiaryID}); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
