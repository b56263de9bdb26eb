package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"funko-catalog-api/internal/middleware"
	"funko-catalog-api/internal/models"
	"funko-catalog-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocket_StreamsEvents(t *testing.T) {
	env := newTestEnv(t)

	r := gin.New()
	r.GET("/api/ws", middleware.JWTAuthMiddleware(env.issuer), NewWebSocketHandler(env.notifier).Serve)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	token, err := env.issuer.GenerateToken("u-1", "alice")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return env.notifier.Len() == 1 }, time.Second, 5*time.Millisecond)

	saved := seed(t, env, "Stitch", models.ModelDisney, 15, "2022-11-30")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt realtime.Event
	require.NoError(t, json.Unmarshal(msg, &evt))
	assert.Equal(t, realtime.EventCreated, evt.Type)
	assert.Equal(t, saved.ID, evt.FunkoID)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return env.notifier.Len() == 0 }, 2*time.Second, 10*time.Millisecond)

	// Publishing with nobody listening is fine.
	_, err = env.svc.Delete(context.Background(), saved.ID)
	require.NoError(t, err)
}

func TestWebSocket_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	r := gin.New()
	r.GET("/api/ws", middleware.JWTAuthMiddleware(env.issuer), NewWebSocketHandler(env.notifier).Serve)

	w := doJSON(t, r, http.MethodGet, "/api/ws", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
