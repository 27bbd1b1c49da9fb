package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"registry-client/registry/domain"
)

type blockingPool struct{}

func (p *blockingPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case <-time.After(5 * time.Second):
		// não deve chegar aqui nos testes
		return nil, false
	}
}

type countingPool struct {
	acquired int
	released int
}

func (p *countingPool) Acquire(ctx context.Context) (func(), bool) {
	p.acquired++
	return func() { p.released++ }, true
}

func TestInFlight_UnlimitedWhenNoPool(t *testing.T) {
	release, err := InFlight{}.Acquire(context.Background())
	require.NoError(t, err)
	release()
}

func TestInFlight_TimeoutIsCancelledWait(t *testing.T) {
	svc := InFlight{Pool: &blockingPool{}, AcquireTimeout: 10 * time.Millisecond}

	_, err := svc.Acquire(context.Background())
	require.ErrorIs(t, err, domain.ErrCancelledWait)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInFlight_CallerCancelIsReported(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := InFlight{Pool: &blockingPool{}}.Acquire(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestInFlight_DelegatesToPool(t *testing.T) {
	pool := &countingPool{}

	release, err := InFlight{Pool: pool}.Acquire(context.Background())
	require.NoError(t, err)
	release()
	require.Equal(t, 1, pool.acquired)
	require.Equal(t, 1, pool.released)
}
