package stub

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	})
}

func request(token, pg string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "http://registry/lk/documents/create?pg="+pg, nil)
	r.RemoteAddr = "10.0.0.1:1234"
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestThrottle_AllowsThenRejectsSameQuota(t *testing.T) {
	calls := 0
	h := Throttle(ThrottleOptions{
		Store:               NewQuotaStore(0.02, 1, WithClock(newClock().now)),
		AddRateLimitHeaders: true,
	})(okHandler(&calls))

	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, request("t1", "milk"))
	require.Equal(t, http.StatusOK, w1.Code)
	require.NotEmpty(t, w1.Header().Get("X-RateLimit-RPS"))
	require.NotEmpty(t, w1.Header().Get("X-RateLimit-Burst"))

	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, request("t1", "milk"))
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
	require.Equal(t, 1, calls)
}

func TestThrottle_RetryAfterFollowsBucketRate(t *testing.T) {
	cases := []struct {
		rps  float64
		want string
	}{
		{rps: 0.5, want: "2"},
		{rps: 0.1, want: "10"},
		// 250ms arredonda para cima, nunca para 0.
		{rps: 4, want: "1"},
	}
	for _, tc := range cases {
		calls := 0
		h := Throttle(ThrottleOptions{Store: NewQuotaStore(tc.rps, 1, WithClock(newClock().now))})(okHandler(&calls))

		h.ServeHTTP(httptest.NewRecorder(), request("t1", "milk"))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, request("t1", "milk"))

		require.Equal(t, http.StatusTooManyRequests, w.Code, "rps=%v", tc.rps)
		require.Equal(t, tc.want, w.Header().Get("Retry-After"), "rps=%v", tc.rps)
	}
}

func TestThrottle_QuotaIsPerTokenAndGroup(t *testing.T) {
	calls := 0
	h := Throttle(ThrottleOptions{Store: NewQuotaStore(0.02, 1)})(okHandler(&calls))

	for _, r := range []*http.Request{request("t1", "milk"), request("t1", "shoes"), request("t2", "milk")} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code, "%s", r.URL)
	}
	require.Equal(t, 3, calls)
}

func TestThrottle_NilStorePassesThrough(t *testing.T) {
	calls := 0
	h := Throttle(ThrottleOptions{})(okHandler(&calls))

	for i := 0; i < 3; i++ {
		h.ServeHTTP(httptest.NewRecorder(), request("t1", "milk"))
	}
	require.Equal(t, 3, calls)
}

func TestRequestKey(t *testing.T) {
	require.Equal(t, QuotaKey{Token: "abc", Group: "milk"}, RequestKey(request("abc", "MILK")))

	r := request("", "milk")
	require.Equal(t, "10.0.0.1:1234", RequestKey(r).Token)

	r.Header.Set("Authorization", "Basic abc")
	require.Equal(t, "10.0.0.1:1234", RequestKey(r).Token)
}
