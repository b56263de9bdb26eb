package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/limited", RateLimit(0.001, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, call("10.0.0.1:1234"))
	require.Equal(t, http.StatusOK, call("10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1234"))

	// Other clients have their own bucket.
	require.Equal(t, http.StatusOK, call("10.0.0.2:1234"))
}
