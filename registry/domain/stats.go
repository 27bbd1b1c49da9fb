package domain

import (
	"context"
	"time"
)

// StatsEvent representa o resultado de um envio.
//
// Outcome vem de domain.Outcome(err). Group/Type têm cardinalidade fechada,
// então podem virar labels/chaves sem explodir séries no Redis/Prometheus.
type StatsEvent struct {
	Outcome string
	Group   Group
	Type    Type

	// Wait é o tempo gasto esperando admissão; Duration é o envio completo.
	Wait     time.Duration
	Duration time.Duration

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas de envio.
//
// Implementações podem armazenar em Redis, Prometheus, memória, etc.
// O orquestrador trata erro como best-effort (não altera o resultado do envio).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
