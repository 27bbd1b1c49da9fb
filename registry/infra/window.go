package infra

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"registry-client/registry/domain"
)

// WindowLimiter é um controle de admissão por janela fixa, compartilhado por
// todas as goroutines que enviam documentos.
//
// Capacidade inicial = limit. Cada Acquire consome uma unidade; sem capacidade,
// o chamador entra numa fila FIFO. Um ticker próprio (Start/Close) repõe a
// capacidade a cada interval, conforme a RefillPolicy, e atende a fila em ordem
// de chegada. Chegadas novas nunca passam na frente de quem já está esperando.
type WindowLimiter struct {
	limit     int
	interval  time.Duration
	policy    domain.RefillPolicy
	newTicker TickerFactory

	mu        sync.Mutex
	available int
	waiters   list.List // *waiter, em ordem de chegada
	closed    bool
	started   bool

	startOnce sync.Once
	closeOnce sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

type waiter struct {
	ready chan struct{}
	// err é escrito antes de fechar ready: nil (admitido) ou ErrLimiterClosed.
	err error
}

type WindowOption func(*WindowLimiter)

func WithRefillPolicy(p domain.RefillPolicy) WindowOption {
	return func(l *WindowLimiter) { l.policy = p }
}

// WithTicker troca o relógio do refill (útil em testes).
func WithTicker(f TickerFactory) WindowOption {
	return func(l *WindowLimiter) { l.newTicker = f }
}

func NewWindowLimiter(limit int, interval time.Duration, opts ...WindowOption) (*WindowLimiter, error) {
	if limit <= 0 {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("rate limit must be > 0, got %d", limit)}
	}
	if interval <= 0 {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("rate interval must be > 0, got %s", interval)}
	}

	l := &WindowLimiter{
		limit:     limit,
		interval:  interval,
		policy:    domain.RefillTopUp,
		newTicker: NewTimeTicker,
		available: limit,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.policy != domain.RefillTopUp && l.policy != domain.RefillBlanket {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("unknown refill policy %d", l.policy)}
	}
	if l.newTicker == nil {
		l.newTicker = NewTimeTicker
	}
	return l, nil
}

func (l *WindowLimiter) Limit() int                  { return l.limit }
func (l *WindowLimiter) Interval() time.Duration     { return l.interval }
func (l *WindowLimiter) Policy() domain.RefillPolicy { return l.policy }

// Available retorna a capacidade livre na janela corrente.
func (l *WindowLimiter) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.available
}

// Waiting retorna quantos chamadores estão bloqueados em Acquire.
func (l *WindowLimiter) Waiting() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waiters.Len()
}

// Acquire implementa domain.Admitter.
func (l *WindowLimiter) Acquire(ctx context.Context) error {
	// ctx já encerrado não consome capacidade, mesmo que haja vaga.
	if err := ctx.Err(); err != nil {
		return &domain.CancelledWaitError{Cause: err}
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return domain.ErrLimiterClosed
	}
	if l.available > 0 && l.waiters.Len() == 0 {
		l.available--
		l.mu.Unlock()
		return nil
	}
	w := &waiter{ready: make(chan struct{})}
	elem := l.waiters.PushBack(w)
	l.mu.Unlock()

	select {
	case <-w.ready:
		return w.err
	case <-ctx.Done():
		l.mu.Lock()
		select {
		case <-w.ready:
			// a vaga chegou junto com o cancelamento: devolve e repassa ao próximo da fila.
			if w.err == nil {
				l.available++
				if l.policy == domain.RefillTopUp && l.available > l.limit {
					l.available = l.limit
				}
				l.grantLocked()
			}
		default:
			l.waiters.Remove(elem)
		}
		l.mu.Unlock()
		return &domain.CancelledWaitError{Cause: ctx.Err()}
	}
}

// grantLocked entrega capacidade aos primeiros da fila. Requer l.mu.
func (l *WindowLimiter) grantLocked() {
	for l.available > 0 && l.waiters.Len() > 0 {
		w := l.waiters.Remove(l.waiters.Front()).(*waiter)
		l.available--
		close(w.ready)
	}
}

// refill é executado a cada tick.
func (l *WindowLimiter) refill() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	switch l.policy {
	case domain.RefillBlanket:
		l.available += l.limit
	default:
		if deficit := l.limit - l.available; deficit > 0 {
			l.available += deficit
		}
	}
	l.grantLocked()
}

// Start inicia a goroutine de refill. Chamadas repetidas são ignoradas.
// Pare cancelando o contexto ou chamando Close.
func (l *WindowLimiter) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		l.mu.Lock()
		if l.closed {
			l.mu.Unlock()
			return
		}
		l.started = true
		l.mu.Unlock()

		t := l.newTicker(l.interval)
		go func() {
			defer close(l.doneCh)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-l.stopCh:
					return
				case <-t.C():
					l.refill()
				}
			}
		}()
	})
}

// Close para o ticker, espera a goroutine de refill terminar e libera todos os
// chamadores em espera com ErrLimiterClosed. Idempotente.
func (l *WindowLimiter) Close() error {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		for e := l.waiters.Front(); e != nil; e = e.Next() {
			w := e.Value.(*waiter)
			w.err = domain.ErrLimiterClosed
			close(w.ready)
		}
		l.waiters.Init()
		started := l.started
		l.mu.Unlock()

		close(l.stopCh)
		if started {
			<-l.doneCh
		}
	})
	return nil
}
