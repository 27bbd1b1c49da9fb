package infra

import (
	"context"
	"sync"
)

// ChanPool é um semáforo em channel que limita quantas chamadas ao Transport
// ficam em voo depois da admissão. Implementa domain.SlotPool.
type ChanPool struct {
	sem chan struct{}
}

func NewChanPool(max int) *ChanPool {
	return &ChanPool{sem: make(chan struct{}, max)}
}

// Acquire espera uma vaga ou o ctx encerrar. A função de release pode ser
// chamada mais de uma vez; só a primeira devolve a vaga.
func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	select {
	case p.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-p.sem }) }, true
	case <-ctx.Done():
		return nil, false
	}
}

// InUse retorna quantas vagas estão ocupadas.
func (p *ChanPool) InUse() int { return len(p.sem) }

func (p *ChanPool) Cap() int { return cap(p.sem) }
