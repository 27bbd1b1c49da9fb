// Package stub fornece um registro falso em net/http para testes e execução local.
//
// Visão geral:
//
//   - Handler: POST /lk/documents/create, valida o bearer token e o corpo,
//     responde no mesmo formato JSON do registro real
//   - QuotaStore: token bucket por (token, pg) com golang.org/x/time/rate
//   - Throttle: middleware que devolve 429 com Retry-After calculado pelo bucket
//
// O cmd/registry-stub sobe esse handler; os testes do pacote registry usam com httptest.
package stub
