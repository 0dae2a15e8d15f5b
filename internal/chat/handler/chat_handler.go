// Package handler exposes the conversation HTTP and WebSocket routes.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"pingchat/internal/chat/service"
	"pingchat/internal/common"
	"pingchat/internal/dbmongo"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type messagesResponse struct {
	Messages []*dbmongo.Message `json:"messages"`
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.SessionFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}
	peerID := mux.Vars(r)["peerID"]

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Empty sends are rejected here; the service does not re-validate.
	// The client keeps its input intact and may resubmit.
	if strings.TrimSpace(req.Text) == "" {
		common.WriteError(w, http.StatusBadRequest, "message text cannot be empty")
		return
	}

	msg, err := h.chatService.SendMessage(r.Context(), claims.UID, peerID, req.Text)
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, "An error occurred")
		return
	}

	common.WriteJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.SessionFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}
	peerID := mux.Vars(r)["peerID"]

	messages, err := h.chatService.GetMessages(r.Context(), claims.UID, peerID)
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, "An error occurred")
		return
	}

	common.WriteJSON(w, http.StatusOK, messagesResponse{Messages: messages})
}

func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.SessionFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}
	messageID := mux.Vars(r)["messageID"]

	if err := h.chatService.DeleteMessage(r.Context(), claims.UID, messageID); err != nil {
		common.WriteError(w, http.StatusInternalServerError, "An error occurred")
		return
	}

	common.WriteJSON(w, http.StatusNoContent, nil)
}
