package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/luxedrive/internal/db"
)

type UserHandler struct {
	users db.UserCollection
	log   log.FieldLogger
}

func NewUserHandler(users db.UserCollection, logger log.FieldLogger) *UserHandler {
	return &UserHandler{users: users, log: logger}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUsers(users))
}

// ToggleBlock blocks or unblocks a customer. Admins cannot be blocked.
func (h *UserHandler) ToggleBlock(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.ToggleBlock(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	h.log.WithFields(log.Fields{"user_id": user.ID, "blocked": user.IsBlocked}).Info("User block toggled")
	writeJSON(w, http.StatusOK, user.Public())
}
