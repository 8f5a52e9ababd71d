package api

import (
	"net/http"
)

type credentials struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Workspace string `json:"workspace,omitempty"`
}

// POST /api/auth/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decode(w, r, &in) {
		return
	}
	res, err := rt.auth.Register(in.Email, in.Password, in.Workspace)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.store.AddAudit(auditEntry(res.UserID, "register", res.TenantID, ""))
	writeJSON(w, r, http.StatusCreated, res)
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decode(w, r, &in) {
		return
	}
	res, err := rt.auth.Login(in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
