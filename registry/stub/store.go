package stub

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// QuotaKey identifica a cota: o registro limita por credencial e grupo de produto.
type QuotaKey struct {
	Token string
	Group string
}

// QuotaStore guarda um token bucket (x/time/rate) por QuotaKey.
//
// Buckets cheios são equivalentes a buckets novos, então Sweep pode
// removê-los sem alterar nenhuma decisão futura.
type QuotaStore struct {
	rps   rate.Limit
	burst int

	sweepEvery time.Duration
	now        func() time.Time

	mu      sync.Mutex
	buckets map[QuotaKey]*rate.Limiter
}

type QuotaOption func(*QuotaStore)

// WithSweepEvery define o período do StartSweeper (0 desliga).
func WithSweepEvery(d time.Duration) QuotaOption {
	return func(s *QuotaStore) { s.sweepEvery = d }
}

// WithClock troca o relógio usado nas reservas (testes).
func WithClock(now func() time.Time) QuotaOption {
	return func(s *QuotaStore) { s.now = now }
}

func NewQuotaStore(rps float64, burst int, opts ...QuotaOption) *QuotaStore {
	s := &QuotaStore{
		rps:        rate.Limit(rps),
		burst:      burst,
		sweepEvery: time.Minute,
		now:        time.Now,
		buckets:    make(map[QuotaKey]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *QuotaStore) RPS() float64 { return float64(s.rps) }
func (s *QuotaStore) Burst() int   { return s.burst }

// Take tenta consumir uma unidade da cota. Quando não há saldo, a reserva é
// desfeita e retryAfter diz quanto falta para o próximo token.
// Com burst <= 0 nada passa e retryAfter é 0 (não há espera que resolva).
func (s *QuotaStore) Take(key QuotaKey) (ok bool, retryAfter time.Duration) {
	now := s.now()
	r := s.bucket(key).ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (s *QuotaStore) bucket(key QuotaKey) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	lim, ok := s.buckets[key]
	if !ok {
		lim = rate.NewLimiter(s.rps, s.burst)
		s.buckets[key] = lim
	}
	return lim
}

func (s *QuotaStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Sweep remove os buckets que já recuperaram o burst inteiro.
func (s *QuotaStore) Sweep() int {
	now := s.now()
	full := float64(s.burst)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, lim := range s.buckets {
		if lim.TokensAt(now) >= full {
			delete(s.buckets, k)
			removed++
		}
	}
	return removed
}

// StartSweeper chama Sweep periodicamente até o ctx encerrar.
func (s *QuotaStore) StartSweeper(ctx context.Context) {
	if s.sweepEvery <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(s.sweepEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}
