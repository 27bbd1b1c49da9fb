package domain

import "context"

// SlotPool representa um recurso com capacidade finita (ex: chamadas HTTP simultâneas).
//
// A semântica é: Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar.
// Ao adquirir, retorna uma função de release que o chamador chama ao terminar.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
