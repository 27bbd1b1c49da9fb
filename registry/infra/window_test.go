package infra

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"registry-client/registry/domain"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func newFakeTicker() *fakeTicker { return &fakeTicker{ch: make(chan time.Time)} }

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

func (f *fakeTicker) factory() TickerFactory {
	return func(time.Duration) Ticker { return f }
}

func newTestLimiter(t *testing.T, limit int, opts ...WindowOption) *WindowLimiter {
	t.Helper()
	// ticker que nunca dispara: os testes chamam refill() diretamente.
	opts = append([]WindowOption{WithTicker(newFakeTicker().factory())}, opts...)
	l, err := NewWindowLimiter(limit, time.Minute, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

// startWaiters dispara n chamadores em ordem de chegada garantida e devolve um
// canal com o índice de cada um assim que for admitido.
func startWaiters(t *testing.T, l *WindowLimiter, n int) <-chan int {
	t.Helper()
	admitted := make(chan int, n)
	base := l.Waiting()
	for i := 0; i < n; i++ {
		i := i
		go func() {
			if err := l.Acquire(context.Background()); err == nil {
				admitted <- i
			}
		}()
		require.Eventually(t, func() bool { return l.Waiting() == base+i+1 }, time.Second, time.Millisecond)
	}
	return admitted
}

func TestNewWindowLimiter_RejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name     string
		limit    int
		interval time.Duration
		opts     []WindowOption
	}{
		{name: "zero limit", limit: 0, interval: time.Second},
		{name: "negative limit", limit: -3, interval: time.Second},
		{name: "zero interval", limit: 1, interval: 0},
		{name: "unknown policy", limit: 1, interval: time.Second, opts: []WindowOption{WithRefillPolicy(domain.RefillPolicy(42))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := NewWindowLimiter(tc.limit, tc.interval, tc.opts...)
			require.Nil(t, l)
			require.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestWindowLimiter_AdmitsUpToLimitThenBlocks(t *testing.T) {
	l := newTestLimiter(t, 2)

	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))
	require.Equal(t, 0, l.Available())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Acquire(ctx)
	require.ErrorIs(t, err, domain.ErrCancelledWait)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 0, l.Waiting())
	require.Equal(t, 0, l.Available())
}

func TestWindowLimiter_TopUpAdmitsAtMostLimitPerWindow(t *testing.T) {
	const limit = 3
	l := newTestLimiter(t, limit)

	for i := 0; i < limit; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	admitted := startWaiters(t, l, 7)
	require.Len(t, admitted, 0)

	// cada janela admite exatamente `limit` enquanto houver fila.
	l.refill()
	require.Equal(t, 4, l.Waiting())
	require.Equal(t, 0, l.Available())

	l.refill()
	require.Equal(t, 1, l.Waiting())
	require.Equal(t, 0, l.Available())

	l.refill()
	require.Equal(t, 0, l.Waiting())
	require.Equal(t, limit-1, l.Available())

	// janelas ociosas não acumulam capacidade.
	l.refill()
	l.refill()
	require.Equal(t, limit, l.Available())

	for i := 0; i < 7; i++ {
		select {
		case <-admitted:
		case <-time.After(time.Second):
			t.Fatalf("waiter %d was never admitted", i)
		}
	}
}

func TestWindowLimiter_BlanketReleaseAccumulatesAcrossWindows(t *testing.T) {
	const limit = 2

	topUp := newTestLimiter(t, limit)
	blanket := newTestLimiter(t, limit, WithRefillPolicy(domain.RefillBlanket))

	// utilização parcial: 1 de 2 em cada janela, por dois ciclos.
	for _, l := range []*WindowLimiter{topUp, blanket} {
		for cycle := 0; cycle < 2; cycle++ {
			require.NoError(t, l.Acquire(context.Background()))
			l.refill()
		}
	}

	require.Equal(t, limit, topUp.Available())
	require.Equal(t, 4, blanket.Available())

	// dentro de uma única janela (sem tick), blanket admite além do limite.
	countImmediate := func(l *WindowLimiter) int {
		n := 0
		for {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			err := l.Acquire(ctx)
			cancel()
			if err != nil {
				require.ErrorIs(t, err, domain.ErrCancelledWait)
				return n
			}
			n++
		}
	}
	require.Equal(t, limit, countImmediate(topUp))
	require.Greater(t, countImmediate(blanket), limit)
}

func TestWindowLimiter_ServesWaitersInArrivalOrder(t *testing.T) {
	l := newTestLimiter(t, 1)
	require.NoError(t, l.Acquire(context.Background()))

	admitted := startWaiters(t, l, 5)

	for want := 0; want < 5; want++ {
		l.refill()
		select {
		case got := <-admitted:
			require.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("waiter %d was not admitted", want)
		}
	}
}

func TestWindowLimiter_NewArrivalsDoNotJumpTheQueue(t *testing.T) {
	l := newTestLimiter(t, 2)
	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	admitted := startWaiters(t, l, 3)

	// 2 vagas: os dois primeiros da fila entram, o terceiro continua esperando.
	l.refill()
	require.ElementsMatch(t, []int{0, 1}, []int{<-admitted, <-admitted})
	require.Equal(t, 1, l.Waiting())

	// quem chega agora vai para o fim da fila.
	late := make(chan error, 1)
	go func() { late <- l.Acquire(context.Background()) }()
	require.Eventually(t, func() bool { return l.Waiting() == 2 }, time.Second, time.Millisecond)

	l.refill()
	require.Equal(t, 2, <-admitted)
	require.NoError(t, <-late)
	require.Equal(t, 0, l.Waiting())
	require.Equal(t, 0, l.Available())
}

func TestWindowLimiter_CancelReleasesOnlyThatWaiter(t *testing.T) {
	l := newTestLimiter(t, 1)
	require.NoError(t, l.Acquire(context.Background()))

	results := make(chan string, 3)
	acquire := func(ctx context.Context, name string) {
		if err := l.Acquire(ctx); err != nil {
			if errors.Is(err, domain.ErrCancelledWait) {
				results <- name + ":cancelled"
				return
			}
			results <- name + ":" + err.Error()
			return
		}
		results <- name + ":admitted"
	}

	ctxB, cancelB := context.WithCancel(context.Background())
	go acquire(context.Background(), "a")
	require.Eventually(t, func() bool { return l.Waiting() == 1 }, time.Second, time.Millisecond)
	go acquire(ctxB, "b")
	require.Eventually(t, func() bool { return l.Waiting() == 2 }, time.Second, time.Millisecond)
	go acquire(context.Background(), "c")
	require.Eventually(t, func() bool { return l.Waiting() == 3 }, time.Second, time.Millisecond)

	cancelB()
	require.Equal(t, "b:cancelled", <-results)
	require.Equal(t, 2, l.Waiting())
	require.Equal(t, 0, l.Available())

	l.refill()
	require.Equal(t, "a:admitted", <-results)
	l.refill()
	require.Equal(t, "c:admitted", <-results)
	require.Equal(t, 0, l.Waiting())
}

func TestWindowLimiter_CancelledContextDoesNotConsume(t *testing.T) {
	l := newTestLimiter(t, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Acquire(ctx)
	require.ErrorIs(t, err, domain.ErrCancelledWait)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 2, l.Available())
}

func TestWindowLimiter_StartRefillsOnTick(t *testing.T) {
	ft := newFakeTicker()
	l, err := NewWindowLimiter(2, time.Minute, WithTicker(ft.factory()))
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx)
	l.Start(ctx)

	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	done := make(chan error, 1)
	go func() { done <- l.Acquire(context.Background()) }()
	require.Eventually(t, func() bool { return l.Waiting() == 1 }, time.Second, time.Millisecond)

	ft.ch <- time.Now()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatalf("waiter was not admitted after tick")
	}
	require.Equal(t, 1, l.Available())
}

func TestWindowLimiter_StopsTickerWhenContextEnds(t *testing.T) {
	ft := newFakeTicker()
	l, err := NewWindowLimiter(1, time.Minute, WithTicker(ft.factory()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	l.Start(ctx)
	cancel()

	require.Eventually(t, ft.stopped.Load, time.Second, time.Millisecond)
	require.NoError(t, l.Close())
}

func TestWindowLimiter_LivenessWithRealTicker(t *testing.T) {
	l, err := NewWindowLimiter(1, 5*time.Millisecond)
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx)

	var wg sync.WaitGroup
	var admitted atomic.Int32
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			actx, acancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer acancel()
			if l.Acquire(actx) == nil {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 6, admitted.Load())
}

func TestWindowLimiter_CloseReleasesWaiters(t *testing.T) {
	ft := newFakeTicker()
	l, err := NewWindowLimiter(1, time.Minute, WithTicker(ft.factory()))
	require.NoError(t, err)
	l.Start(context.Background())
	require.NoError(t, l.Acquire(context.Background()))

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() { errs <- l.Acquire(context.Background()) }()
	}
	require.Eventually(t, func() bool { return l.Waiting() == 2 }, time.Second, time.Millisecond)

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	for i := 0; i < 2; i++ {
		require.ErrorIs(t, <-errs, domain.ErrLimiterClosed)
	}
	require.ErrorIs(t, l.Acquire(context.Background()), domain.ErrLimiterClosed)
	require.True(t, ft.stopped.Load())
}
