// Package domain define contratos e tipos de domínio para o envio de documentos ao registro.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar as regras do pipeline
// (validar, codificar, admitir, enviar, interpretar) de detalhes de infraestrutura.
package domain
