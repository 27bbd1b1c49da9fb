package domain

// Camada de domínio do controle de admissão.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import "context"

// Admitter decide quando um envio pode prosseguir.
//
// A semântica é: Acquire bloqueia até haver capacidade na janela corrente ou até
// o ctx encerrar. Se o ctx encerrar antes, retorna *CancelledWaitError e nenhuma
// vaga é consumida. Diferente do SlotPool, a vaga não é devolvida pelo chamador:
// quem repõe a capacidade é o próprio limiter, a cada intervalo.
type Admitter interface {
	Acquire(ctx context.Context) error
}

// RefillPolicy define como a capacidade é reposta a cada tick.
type RefillPolicy int

const (
	// RefillTopUp repõe apenas o que falta até o limite (janela fixa correta).
	RefillTopUp RefillPolicy = iota
	// RefillBlanket soma o limite inteiro a cada tick, sem teto.
	// Comportamento legado: capacidade não usada acumula entre janelas.
	RefillBlanket
)

func (p RefillPolicy) String() string {
	switch p {
	case RefillTopUp:
		return "topup"
	case RefillBlanket:
		return "blanket"
	default:
		return "unknown"
	}
}
