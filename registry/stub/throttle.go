package stub

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type KeyFunc func(r *http.Request) QuotaKey

// RequestKey monta a cota a partir do bearer token e do parâmetro pg.
// Sem token, usa o RemoteAddr.
func RequestKey(r *http.Request) QuotaKey {
	token, ok := bearerToken(r)
	if !ok {
		token = r.RemoteAddr
	}
	if token == "" {
		token = "unknown"
	}
	return QuotaKey{Token: token, Group: strings.ToLower(r.URL.Query().Get("pg"))}
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}

type ThrottleOptions struct {
	Store *QuotaStore
	KeyFn KeyFunc
	// AddRateLimitHeaders expõe RPS/Burst nas respostas, útil para depurar o cliente.
	AddRateLimitHeaders bool
}

// Throttle responde 429 quando a cota (token, pg) está esgotada, com
// Retry-After igual ao tempo até o próximo token do bucket, em segundos
// arredondados para cima. Se o WindowLimiter do cliente estiver acima do que o
// registro aceita, esses 429 aparecem como *domain.HTTPError.
func Throttle(opts ThrottleOptions) func(next http.Handler) http.Handler {
	if opts.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.KeyFn == nil {
		opts.KeyFn = RequestKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-RPS", strconv.FormatFloat(opts.Store.RPS(), 'f', -1, 64))
				w.Header().Set("X-RateLimit-Burst", strconv.Itoa(opts.Store.Burst()))
			}

			ok, wait := opts.Store.Take(opts.KeyFn(r))
			if !ok {
				if wait > 0 {
					w.Header().Set("Retry-After", retryAfterSeconds(wait))
				}
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func retryAfterSeconds(d time.Duration) string {
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}
