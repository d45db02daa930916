package httpapi

import (
	"net/http"

	"jobly/jobs-service/internal/users"
)

type tokenRequest struct {
	Username string `json:"username" validate:"required,max=25"`
	Password string `json:"password" validate:"required,max=72"`
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,max=25"`
	Password  string `json:"password" validate:"required,min=5,max=20"`
	FirstName string `json:"firstName" validate:"required,max=30"`
	LastName  string `json:"lastName" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email,min=6,max=60"`
}

// token handles POST /auth/token
func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondToken(w, r, http.StatusOK, user)
}

// register handles POST /auth/register. New accounts are never admins.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), users.Registration{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondToken(w, r, http.StatusCreated, user)
}

func (h *Handler) respondToken(w http.ResponseWriter, r *http.Request, status int, user *users.User) {
	token, err := h.tokens.Issue(user.Username, user.IsAdmin)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, status, map[string]string{"token": token})
}
