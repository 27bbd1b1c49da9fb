// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - WindowLimiter: admissão por janela fixa com fila FIFO e ticker próprio
//   - ChanPool: semáforo simples para limitar chamadas HTTP em voo
//   - HTTPTransport: domain.Transport sobre net/http
//   - MemoryStatsStore / RedisStatsStore: contadores de resultado dos envios
//   - LoadManifest: lista de documentos em YAML para o cmd/submitter
package infra
