package middlewares_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/userhub/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limiterRouter(store middlewares.CounterStore, limit int, window time.Duration) *gin.Engine {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	rl := middlewares.NewRateLimiter(store, limit, window, log)

	r := gin.New()
	r.POST("/probe", rl.Middleware(middlewares.KeyByIP), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return r
}

func hit(r http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/probe", nil)
	req.RemoteAddr = "10.0.0.1:12345"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRateLimiterAllowsUnderLimit(t *testing.T) {
	r := limiterRouter(middlewares.NewMemoryCounterStore(), 3, time.Minute)

	for i := 0; i < 3; i++ {
		if w := hit(r); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	r := limiterRouter(middlewares.NewMemoryCounterStore(), 2, time.Minute)

	hit(r)
	hit(r)

	w := hit(r)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}

	if w.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After header missing")
	}
}

func TestRateLimiterWindowResets(t *testing.T) {
	r := limiterRouter(middlewares.NewMemoryCounterStore(), 1, 10*time.Millisecond)

	hit(r)

	if w := hit(r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}

	time.Sleep(15 * time.Millisecond)

	if w := hit(r); w.Code != http.StatusOK {
		t.Fatalf("after window: status = %d, want 200", w.Code)
	}
}

type failingStore struct{}

func (failingStore) Incr(_ context.Context, _ string, _ time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("backend down")
}

// a broken limiter backend must not take the endpoint down with it

func TestRateLimiterFailsOpen(t *testing.T) {
	r := limiterRouter(failingStore{}, 1, time.Minute)

	for i := 0; i < 5; i++ {
		if w := hit(r); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want fail-open 200", i, w.Code)
		}
	}
}

func TestMemoryCounterStoreCounts(t *testing.T) {
	store := middlewares.NewMemoryCounterStore()

	for want := 1; want <= 3; want++ {
		count, resetIn, err := store.Incr(context.Background(), "k", time.Minute)

		if err != nil {
			t.Fatalf("incr: %v", err)
		}

		if count != want {
			t.Fatalf("count = %d, want %d", count, want)
		}

		if resetIn <= 0 || resetIn > time.Minute {
			t.Fatalf("resetIn = %v", resetIn)
		}
	}

	// independent keys do not share buckets
	count, _, _ := store.Incr(context.Background(), "other", time.Minute)

	if count != 1 {
		t.Fatalf("fresh key count = %d, want 1", count)
	}
}
