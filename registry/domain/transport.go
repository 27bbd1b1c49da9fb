package domain

import (
	"context"
	"net/url"
)

// Transport executa a troca HTTP com o registro.
//
// Falhas de conexão devem vir como *TransportError. Qualquer status HTTP
// (inclusive 4xx/5xx) é uma resposta válida e volta com err == nil.
type Transport interface {
	Send(ctx context.Context, uri *url.URL, headers map[string]string, body []byte) (status int, respBody []byte, err error)
}

// CredentialProvider fornece o bearer token anexado a cada requisição.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken é um CredentialProvider com valor fixo (ex: vindo do ambiente).
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }
