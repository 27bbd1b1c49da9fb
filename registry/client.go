package registry

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"registry-client/registry/application"
	"registry-client/registry/domain"
	"registry-client/registry/infra"
)

const (
	DefaultLimit       = 3
	DefaultInterval    = time.Minute
	DefaultHTTPTimeout = 30 * time.Second
)

// Options configura o Client.
type Options struct {
	BaseURL string

	// Token ou Credentials; Credentials tem precedência.
	Token       string
	Credentials domain.CredentialProvider

	// Limit e Interval: 0 significa o padrão (DefaultLimit por DefaultInterval).
	// Valores negativos são *domain.ConfigurationError, como no WindowLimiter.
	Limit        int
	Interval     time.Duration
	RefillPolicy domain.RefillPolicy

	// MaxInFlight limita chamadas HTTP simultâneas após a admissão (0 = sem limite).
	MaxInFlight     int
	InFlightTimeout time.Duration

	HTTPTimeout time.Duration
	HTTPClient  *http.Client
	// Transport substitui o HTTPTransport (útil em testes).
	Transport domain.Transport

	Stats  domain.StatsStore
	Ticker infra.TickerFactory
	Logger *log.Entry
}

// Client é seguro para uso concorrente: todas as goroutines compartilham o
// mesmo limiter.
type Client struct {
	limiter   *infra.WindowLimiter
	submitter application.Submitter
	logger    *log.Entry
	cancel    context.CancelFunc
}

// New valida as opções, cria o limiter e já inicia o refill.
// Chame Close ao terminar.
func New(opts Options) (*Client, error) {
	creds := opts.Credentials
	if creds == nil {
		if strings.TrimSpace(opts.Token) == "" {
			return nil, &domain.ConfigurationError{Reason: "bearer token is required"}
		}
		creds = domain.StaticToken(opts.Token)
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Interval == 0 {
		opts.Interval = DefaultInterval
	}
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = DefaultHTTPTimeout
	}
	if opts.MaxInFlight < 0 {
		return nil, &domain.ConfigurationError{Reason: "max in-flight must be >= 0"}
	}
	if _, err := application.Endpoint(opts.BaseURL, ""); err != nil {
		return nil, err
	}

	limOpts := []infra.WindowOption{infra.WithRefillPolicy(opts.RefillPolicy)}
	if opts.Ticker != nil {
		limOpts = append(limOpts, infra.WithTicker(opts.Ticker))
	}
	limiter, err := infra.NewWindowLimiter(opts.Limit, opts.Interval, limOpts...)
	if err != nil {
		return nil, err
	}

	transport := opts.Transport
	if transport == nil {
		var tOpts []infra.HTTPTransportOption
		if opts.HTTPClient != nil {
			tOpts = append(tOpts, infra.WithHTTPClient(opts.HTTPClient))
		}
		transport = infra.NewHTTPTransport(opts.HTTPTimeout, tOpts...)
	}

	inflight := application.InFlight{AcquireTimeout: opts.InFlightTimeout}
	if opts.MaxInFlight > 0 {
		inflight.Pool = infra.NewChanPool(opts.MaxInFlight)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "registry")
	}

	ctx, cancel := context.WithCancel(context.Background())
	limiter.Start(ctx)

	logger.WithFields(log.Fields{
		"limit":        opts.Limit,
		"interval":     opts.Interval,
		"refill":       limiter.Policy(),
		"max_inflight": opts.MaxInFlight,
	}).Debug("registry client started")

	return &Client{
		limiter: limiter,
		submitter: application.Submitter{
			BaseURL:      opts.BaseURL,
			Limiter:      limiter,
			Transport:    transport,
			Credentials:  creds,
			InFlight:     inflight,
			Stats:        opts.Stats,
			NewRequestID: uuid.NewString,
		},
		logger: logger,
		cancel: cancel,
	}, nil
}

// Limiter expõe o limiter para métricas (Available/Waiting/Limit).
func (c *Client) Limiter() *infra.WindowLimiter { return c.limiter }

// SubmitDocument envia um documento, bloqueando até ser admitido pelo limiter
// ou até ctx encerrar. O resultado do registro volta mesmo quando IsSuccess é false.
func (c *Client) SubmitDocument(ctx context.Context, doc domain.Document, signature string) (domain.SubmissionResult, error) {
	res, err := c.submitter.SubmitDocument(ctx, doc, signature)

	entry := c.logger.WithFields(log.Fields{
		"group":   doc.Group,
		"type":    doc.Type,
		"outcome": domain.Outcome(err),
	})
	switch {
	case err == nil && res.IsSuccess():
		entry.WithField("value", res.Value).Debug("document submitted")
	case err == nil:
		entry.WithFields(log.Fields{"code": res.Code, "error_message": res.ErrorMessage}).Warn("registry rejected document")
	case errors.Is(err, domain.ErrCancelledWait), errors.Is(err, domain.ErrLimiterClosed):
		entry.WithError(err).Debug("submission abandoned")
	default:
		entry.WithError(err).Warn("submission failed")
	}
	return res, err
}

// Close para o refill e libera quem estiver esperando admissão com
// domain.ErrLimiterClosed. Idempotente.
func (c *Client) Close() error {
	err := c.limiter.Close()
	c.cancel()
	return err
}
