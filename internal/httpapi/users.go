package httpapi

import (
	"net/http"

	"jobly/jobs-service/internal/users"
)

type userUpdateRequest struct {
	FirstName *string `json:"firstName" validate:"omitnil,min=1,max=30"`
	LastName  *string `json:"lastName" validate:"omitnil,min=1,max=30"`
	Email     *string `json:"email" validate:"omitnil,email,min=6,max=60"`
	Password  *string `json:"password" validate:"omitnil,min=5,max=20"`
	IsAdmin   *bool   `json:"isAdmin"`
}

// getUser handles GET /users/{username}
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), r.PathValue("username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// updateUser handles PATCH /users/{username}
func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), r.PathValue("username"), users.Update{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
