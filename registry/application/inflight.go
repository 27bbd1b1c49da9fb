package application

import (
	"context"
	"fmt"
	"time"

	"registry-client/registry/domain"
)

// InFlight limita quantas chamadas ao Transport ficam em voo depois da admissão.
//
// Sem Pool não há limite: chamadores admitidos seguem em paralelo. Isso não
// interfere na janela do limiter, só protege o cliente HTTP local.
//
// A vaga é pedida depois da admissão: se ela falhar (timeout ou cancelamento),
// a permissão da janela já foi gasta e o envio não acontece.
type InFlight struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire espera uma vaga.
// - `AcquireTimeout <= 0`: espera até o ctx encerrar.
// - `AcquireTimeout > 0`: desiste depois do timeout.
// Em ambos os casos a falha vira *domain.CancelledWaitError e nada precisa ser liberado.
func (s InFlight) Acquire(ctx context.Context) (func(), error) {
	if s.Pool == nil {
		return func() {}, nil
	}

	acqCtx := ctx
	if s.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acqCtx, cancel = context.WithTimeout(ctx, s.AcquireTimeout)
		defer cancel()
	}

	release, ok := s.Pool.Acquire(acqCtx)
	if ok {
		return release, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, &domain.CancelledWaitError{Cause: err}
	}
	return nil, &domain.CancelledWaitError{Cause: fmt.Errorf("in-flight slot after %s: %w", s.AcquireTimeout, context.DeadlineExceeded)}
}
