// Package registry monta o cliente de envio de documentos para o registro.
//
// Visão geral (camadas):
//
//   - domain: tipos do documento, erros classificados e contratos (Transport, Admitter, StatsStore)
//   - application: Validate, Encode, Interpret e o Submitter que orquestra o pipeline
//   - infra: WindowLimiter (janela fixa FIFO), HTTPTransport, semáforo, stats em memória/Redis, manifesto YAML
//   - metrics: stats no Prometheus e gauges do limiter
//   - stub: registro falso para testes e execução local
//   - registry (este pacote): wiring + logging
//
// Fluxo de um envio:
//
//  1. Valida o documento e a assinatura
//  2. Serializa (base64 + JSON)
//  3. Espera admissão no limiter compartilhado
//  4. Faz o POST e interpreta a resposta
//
// O cliente não faz retry. Erros voltam classificados (errors.Is com os
// sentinels de domain) para o chamador decidir.
package registry
