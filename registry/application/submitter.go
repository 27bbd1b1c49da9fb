package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"registry-client/registry/domain"
)

const (
	DefaultBaseURL = "https://ismp.crpt.ru/api/v3"
	CreatePath     = "/lk/documents/create"

	HeaderRequestID = "X-Request-Id"
)

// Submitter concentra o pipeline de envio:
// Validate -> Encode -> Limiter.Acquire -> Transport.Send -> Interpret.
//
// Ele não sabe nada sobre HTTP concreto nem faz retry; qualquer falha volta
// classificada para o chamador, que decide o que fazer.
type Submitter struct {
	BaseURL     string
	Limiter     domain.Admitter
	Transport   domain.Transport
	Credentials domain.CredentialProvider
	InFlight    InFlight
	// Stats é best-effort: erro ao gravar não muda o resultado do envio.
	Stats domain.StatsStore

	// NewRequestID, se definido, preenche o header X-Request-Id.
	NewRequestID func() string
	Now          func() time.Time
}

func (s Submitter) SubmitDocument(ctx context.Context, doc domain.Document, signature string) (res domain.SubmissionResult, err error) {
	now := s.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	var wait time.Duration
	defer func() {
		s.record(ctx, doc, err, wait, now().Sub(start))
	}()

	if err = Validate(doc); err != nil {
		return domain.SubmissionResult{}, err
	}
	if strings.TrimSpace(signature) == "" {
		return domain.SubmissionResult{}, &domain.ValidationError{Field: "signature"}
	}
	if s.Limiter == nil || s.Transport == nil {
		return domain.SubmissionResult{}, &domain.ConfigurationError{Reason: "submitter requires a limiter and a transport"}
	}

	token, err := s.token(ctx)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	req := Encode(doc, signature)
	body, err := json.Marshal(req)
	if err != nil {
		return domain.SubmissionResult{}, fmt.Errorf("encode request: %w", err)
	}
	uri, err := Endpoint(s.BaseURL, req.ProductGroup)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	waitStart := now()
	err = s.Limiter.Acquire(ctx)
	wait = now().Sub(waitStart)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	// falhar aqui gasta a permissão da janela sem enviar (ver InFlight).
	release, err := s.InFlight.Acquire(ctx)
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	defer release()

	headers := map[string]string{
		"Content-Type":  "application/json;charset=UTF-8",
		"Authorization": "Bearer " + token,
	}
	if s.NewRequestID != nil {
		headers[HeaderRequestID] = s.NewRequestID()
	}

	status, respBody, err := s.Transport.Send(ctx, uri, headers, body)
	if err != nil {
		if !errors.Is(err, domain.ErrTransport) {
			err = &domain.TransportError{Err: err}
		}
		return domain.SubmissionResult{}, err
	}
	return Interpret(status, respBody)
}

func (s Submitter) token(ctx context.Context) (string, error) {
	if s.Credentials == nil {
		return "", &domain.ConfigurationError{Reason: "no credential provider"}
	}
	token, err := s.Credentials.Token(ctx)
	if err != nil {
		return "", &domain.ConfigurationError{Reason: "credential lookup: " + err.Error()}
	}
	if strings.TrimSpace(token) == "" {
		return "", &domain.ConfigurationError{Reason: "bearer token is empty"}
	}
	return token, nil
}

func (s Submitter) record(ctx context.Context, doc domain.Document, err error, wait, took time.Duration) {
	if s.Stats == nil {
		return
	}
	at := time.Now()
	if s.Now != nil {
		at = s.Now()
	}
	// grava mesmo quando o chamador cancelou.
	_ = s.Stats.Record(context.WithoutCancel(ctx), domain.StatsEvent{
		Outcome:  domain.Outcome(err),
		Group:    doc.Group,
		Type:     doc.Type,
		Wait:     wait,
		Duration: took,
		At:       at,
	})
}

// Endpoint monta {baseURL}/lk/documents/create?pg={group}.
func Endpoint(baseURL, productGroup string) (*url.URL, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + CreatePath)
	if err != nil {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("invalid base url %q: %v", baseURL, err)}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("base url %q must be absolute", baseURL)}
	}
	q := u.Query()
	q.Set("pg", productGroup)
	u.RawQuery = q.Encode()
	return u, nil
}
