package adapthttp

import (
	"net/http"
	"time"

	"rations/internal/domain"
)

type sessionView struct {
	Role        domain.Role `json:"role"`
	PrincipalID int64       `json:"principalId"`
	Name        string      `json:"name"`
	ShopID      int64       `json:"shopId,omitempty"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

func viewSession(s *domain.Session) sessionView {
	v := sessionView{Role: s.Role, PrincipalID: s.PrincipalID, Name: s.Name, ExpiresAt: s.ExpiresAt}
	switch p := s.Principal.(type) {
	case domain.BeneficiaryPrincipal:
		v.ShopID = p.Beneficiary.ShopID
	case domain.DealerPrincipal:
		v.ShopID = p.Shop.ID
	}
	return v
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role       string `json:"role"`
		Identifier string `json:"identifier"`
		Secret     string `json:"secret"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Role, req.Identifier, req.Secret)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	token, err := s.auth.StartSession(r.Context(), sess)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.sessionTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "session": viewSession(sess)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewSession(sessionFrom(r.Context())))
}
