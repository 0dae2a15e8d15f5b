package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pingchat/internal/chat/repository"
	"pingchat/internal/chat/service"
	"pingchat/internal/common"
	"pingchat/internal/dbmongo"
)

// testRouter wires the conversation routes behind a middleware that
// injects a fixed session, standing in for the JWT middleware.
func testRouter(h *ChatHandler, uid string) *mux.Router {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := common.ContextWithSession(req.Context(), &common.Claims{UID: uid})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.HandleFunc("/chat/{peerID}/messages", h.SendMessage).Methods("POST")
	r.HandleFunc("/chat/{peerID}/messages", h.GetMessages).Methods("GET")
	r.HandleFunc("/chat/{peerID}/stream", h.StreamMessages).Methods("GET")
	r.HandleFunc("/chat/messages/{messageID}", h.DeleteMessage).Methods("DELETE")
	return r
}

func TestChatHandler_SendMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := service.NewMockChatService(ctrl)
	router := testRouter(NewChatHandler(mockSvc), "alice")

	tests := []struct {
		name       string
		body       string
		setup      func()
		wantStatus int
	}{
		{
			name: "success",
			body: `{"text":"hello"}`,
			setup: func() {
				mockSvc.EXPECT().SendMessage(gomock.Any(), "alice", "bob", "hello").
					Return(&dbmongo.Message{ID: "m1", SenderID: "alice", RecipientID: "bob", Text: "hello"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "blank text rejected without a service call",
			body:       `{"text":"   "}`,
			setup:      func() {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{not json`,
			setup:      func() {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "service failure",
			body: `{"text":"hello"}`,
			setup: func() {
				mockSvc.EXPECT().SendMessage(gomock.Any(), "alice", "bob", "hello").
					Return(nil, assert.AnError)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			req := httptest.NewRequest("POST", "/chat/bob/messages", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			require.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestChatHandler_GetMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := service.NewMockChatService(ctrl)
	router := testRouter(NewChatHandler(mockSvc), "alice")

	history := []*dbmongo.Message{
		{ID: "m1", SenderID: "alice", RecipientID: "bob", Text: "first", CreatedAt: time.Unix(1, 0).UTC()},
		{ID: "m2", SenderID: "bob", RecipientID: "alice", Text: "second", CreatedAt: time.Unix(2, 0).UTC()},
	}
	mockSvc.EXPECT().GetMessages(gomock.Any(), "alice", "bob").Return(history, nil)

	req := httptest.NewRequest("GET", "/chat/bob/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Messages []*dbmongo.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "first", resp.Messages[0].Text)
	assert.Equal(t, "second", resp.Messages[1].Text)
}

func TestChatHandler_DeleteMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := service.NewMockChatService(ctrl)
	router := testRouter(NewChatHandler(mockSvc), "alice")

	// The session identity scopes the delete to the caller's own copy
	mockSvc.EXPECT().DeleteMessage(gomock.Any(), "alice", "m1").Return(nil)

	req := httptest.NewRequest("DELETE", "/chat/messages/m1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestChatHandler_RequiresSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := service.NewMockChatService(ctrl)
	h := NewChatHandler(mockSvc)

	// No session middleware, so every route must refuse.
	r := mux.NewRouter()
	r.HandleFunc("/chat/{peerID}/messages", h.SendMessage).Methods("POST")
	r.HandleFunc("/chat/{peerID}/messages", h.GetMessages).Methods("GET")
	r.HandleFunc("/chat/messages/{messageID}", h.DeleteMessage).Methods("DELETE")

	for _, route := range []struct{ method, path string }{
		{"POST", "/chat/bob/messages"},
		{"GET", "/chat/bob/messages"},
		{"DELETE", "/chat/messages/m1"},
	} {
		req := httptest.NewRequest(route.method, route.path, strings.NewReader(`{"text":"x"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestChatHandler_StreamClosedByClientCancelsSubscription(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := service.NewMockChatService(ctrl)
	router := testRouter(NewChatHandler(mockSvc), "alice")

	sub := repository.NewSubscription(func() {})
	mockSvc.EXPECT().SubscribeToMessages(gomock.Any(), "alice", "bob").Return(sub, nil)

	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/bob/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	conn.Close()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not cancelled after client disconnect")
	}
}

func TestChatHandler_StreamClosesSocketWhenSubscriptionEnds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := service.NewMockChatService(ctrl)
	router := testRouter(NewChatHandler(mockSvc), "alice")

	sub := repository.NewSubscription(func() {})
	mockSvc.EXPECT().SubscribeToMessages(gomock.Any(), "alice", "bob").Return(sub, nil)

	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/bob/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Server-side cancellation, as on shutdown
	sub.Cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
}

func TestChatHandler_StreamSubscribeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := service.NewMockChatService(ctrl)
	router := testRouter(NewChatHandler(mockSvc), "alice")

	mockSvc.EXPECT().SubscribeToMessages(gomock.Any(), "alice", "bob").
		Return(nil, assert.AnError)

	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/bob/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The upgrade succeeds and then the server drops the socket.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
}
