package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"anoa.com/freelancehub/internal/entity"
	notifDto "anoa.com/freelancehub/internal/modules/notification/dto"
	notifRepo "anoa.com/freelancehub/internal/modules/notification/repository"
	notif "anoa.com/freelancehub/internal/modules/notification/service"
	"anoa.com/freelancehub/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleWebSocketStreamsEmittedNotifications(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	mr, rdb := testutil.NewRedis(t)
	svc := notif.NewNotificationService(notifRepo.NewNotificationRepository(db), rdb)
	h := NewNotificationHandler(svc, rdb, nil)

	dev := testutil.SeedUser(t, db, "dev@example.com", entity.RoleFreelancer)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { c.Set("user_id", dev.ID.String()) }, h.HandleWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	channel := notif.Channel(dev.ID)
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(channel)[channel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	sent, err := svc.Emit(context.Background(), dev.ID, entity.NotificationApplicationAccepted, entity.NoRelated())
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var got notifDto.NotificationResponse
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, entity.NotificationApplicationAccepted, got.Type)
	assert.Equal(t, notif.FallbackMessage, got.Message)
}

func TestHandleWebSocketWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	svc := notif.NewNotificationService(notifRepo.NewNotificationRepository(db), nil)
	h := NewNotificationHandler(svc, nil, nil)

	dev := testutil.SeedUser(t, db, "dev@example.com", entity.RoleFreelancer)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { c.Set("user_id", dev.ID.String()) }, h.HandleWebSocket)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
