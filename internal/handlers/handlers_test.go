package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"funko-catalog-api/internal/auth"
	"funko-catalog-api/internal/cache"
	"funko-catalog-api/internal/models"
	"funko-catalog-api/internal/realtime"
	"funko-catalog-api/internal/repository"
	"funko-catalog-api/internal/service"
	"funko-catalog-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	svc      *service.FunkoService
	notifier *realtime.Notifier
	issuer   *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	c, err := cache.New[string, models.Funko](15, 90*time.Second)
	require.NoError(t, err)

	notifier := realtime.NewNotifier()
	svc := service.NewFunkoService(repository.NewGormFunkoRepository(db, repository.Options{}), c, notifier)
	t.Cleanup(svc.Shutdown)

	return &testEnv{
		db:       db,
		svc:      svc,
		notifier: notifier,
		issuer:   auth.NewTokenIssuer("test-secret", "test-issuer", "test-audience", time.Hour),
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
