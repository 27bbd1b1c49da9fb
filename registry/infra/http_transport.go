package infra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"registry-client/registry/domain"
)

// HTTPTransport implementa domain.Transport com net/http.
type HTTPTransport struct {
	client *http.Client
	// maxBody limita a leitura da resposta (0 = sem limite).
	maxBody int64
}

type HTTPTransportOption func(*HTTPTransport)

func WithHTTPClient(c *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) { t.client = c }
}

func WithMaxResponseBytes(n int64) HTTPTransportOption {
	return func(t *HTTPTransport) { t.maxBody = n }
}

func NewHTTPTransport(timeout time.Duration, opts ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{
		client:  &http.Client{Timeout: timeout},
		maxBody: 4 << 20,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send faz POST do corpo. Qualquer status HTTP é devolvido sem erro; falhas
// de conexão/leitura e respostas acima de maxBody viram *domain.TransportError.
func (t *HTTPTransport) Send(ctx context.Context, uri *url.URL, headers map[string]string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri.String(), bytes.NewReader(body))
	if err != nil {
		return 0, nil, &domain.TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, &domain.TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var r io.Reader = resp.Body
	if t.maxBody > 0 {
		// lê um byte a mais para distinguir "exatamente no limite" de "estourou".
		r = io.LimitReader(resp.Body, t.maxBody+1)
	}
	respBody, err := io.ReadAll(r)
	if err != nil {
		return resp.StatusCode, nil, &domain.TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	if t.maxBody > 0 && int64(len(respBody)) > t.maxBody {
		return resp.StatusCode, nil, &domain.TransportError{Err: fmt.Errorf("response exceeds %d bytes", t.maxBody)}
	}
	return resp.StatusCode, respBody, nil
}
