package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/3sol-fa/RoofConstructionManager/pkg/domain"
)

func fakeUpstream(t *testing.T, calls *int32, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCurrentCachesInRedis(t *testing.T) {
	var calls int32
	upstream := fakeUpstream(t, &calls, `{"weather":[{"main":"Clear"}],"main":{"temp":71.2,"humidity":40},"wind":{"speed":5}}`)
	mr := miniredis.RunT(t)

	svc := New(Config{
		APIKey:    "test-key",
		BaseURL:   upstream.URL,
		RedisAddr: mr.Addr(),
		CacheTTL:  time.Hour,
	})

	ctx := context.Background()
	first, err := svc.Current(ctx, "site-a")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if first.WorkCondition != domain.WorkGood {
		t.Fatalf("workCondition = %q, want good", first.WorkCondition)
	}

	second, err := svc.Current(ctx, "site-a")
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("upstream calls = %d, want 1 (second hit should come from cache)", got)
	}
	if second.Temperature != first.Temperature {
		t.Fatalf("cached temperature = %f, want %f", second.Temperature, first.Temperature)
	}

	// Expired cache entries trigger a refetch.
	mr.FastForward(2 * time.Hour)
	if _, err := svc.Current(ctx, "site-a"); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("upstream calls = %d, want 2 after cache expiry", got)
	}
}

func TestCurrentWithoutAPIKey(t *testing.T) {
	svc := New(Config{})
	if _, err := svc.Current(context.Background(), "site-a"); err != ErrNotConfigured {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestClassifyWorkCondition(t *testing.T) {
	cases := []struct {
		condition string
		wind      float64
		want      domain.WorkCondition
	}{
		{"Rain", 5, domain.WorkUnsafe},
		{"Clear", 25, domain.WorkUnsafe},
		{"Clouds", 5, domain.WorkCaution},
		{"Clear", 17, domain.WorkCaution},
		{"Clear", 5, domain.WorkGood},
	}
	for _, tc := range cases {
		if got := classifyWorkCondition(tc.condition, tc.wind); got != tc.want {
			t.Errorf("classify(%q, %.0f) = %q, want %q", tc.condition, tc.wind, got, tc.want)
		}
	}
}
