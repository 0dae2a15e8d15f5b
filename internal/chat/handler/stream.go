package handler

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"pingchat/internal/common"
	"pingchat/internal/dbmongo"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin access mirrors the CORS policy of the HTTP routes.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// snapshotFrame is one push delivery: the complete current result set
// of the live query, not a delta.
type snapshotFrame struct {
	Type     string             `json:"type"`
	Messages []*dbmongo.Message `json:"messages"`
}

// StreamMessages upgrades the connection and pushes a snapshot frame
// for every delivery of the conversation subscription, in arrival
// order. Closing the socket cancels the subscription.
func (h *ChatHandler) StreamMessages(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.SessionFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}
	peerID := mux.Vars(r)["peerID"]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	sub, err := h.chatService.SubscribeToMessages(r.Context(), claims.UID, peerID)
	if err != nil {
		log.Printf("subscription failed for %s/%s: %v", claims.UID, peerID, err)
		conn.Close()
		return
	}

	// Reader: the client sends nothing meaningful; a read error means
	// the socket is gone and the subscription must be released.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Cancel()
				return
			}
		}
	}()

	defer conn.Close()
	for {
		select {
		case snapshot := <-sub.Updates():
			if err := conn.WriteJSON(snapshotFrame{Type: "snapshot", Messages: snapshot}); err != nil {
				sub.Cancel()
				return
			}
		case <-sub.Done():
			return
		}
	}
}
