package search

import (
	"net/http"

	"pingchat/internal/common"
	"pingchat/internal/dbmysql"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type searchResponse struct {
	Users []*dbmysql.User `json:"users"`
}

func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	users, err := h.service.SearchUsers(r.Context(), term)
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, "An error occurred")
		return
	}

	common.WriteJSON(w, http.StatusOK, searchResponse{Users: users})
}
