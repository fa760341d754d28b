package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// makeTestRouter creates a Gin engine with a single middleware and a test route.
func makeTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestRateLimiter_AllowsInitialBurst(t *testing.T) {
	router := makeTestRouter(NewRateLimiter(time.Minute, 5, "slow down").Middleware())

	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200 on request %d, got %d", i+1, w.Code)
		}
	}

	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 on 6th request, got %d", w.Code)
	}
}

func TestRateLimiter_SeparateBucketsPerIP(t *testing.T) {
	router := makeTestRouter(NewRateLimiter(time.Minute, 1, "slow down").Middleware())

	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200 for %s, got %d", addr, w.Code)
		}
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 1, "slow down")
	limiter.getVisitor("10.0.0.1")
	limiter.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	limiter.getVisitor("10.0.0.2")

	if dropped := limiter.Cleanup(time.Minute); dropped != 1 {
		t.Fatalf("expected 1 visitor dropped, got %d", dropped)
	}
	if _, ok := limiter.visitors["10.0.0.2"]; !ok {
		t.Fatalf("expected recent visitor to be kept")
	}
}
