package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation: documento incompleto. Local, nunca repetido.
	ErrValidation = errors.New("document validation failed")
	// ErrConfiguration: parâmetros do limiter ou credencial ausentes/invalidos.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrCancelledWait: o chamador desistiu enquanto esperava admissão.
	ErrCancelledWait = errors.New("cancelled while waiting for admission")
	// ErrLimiterClosed: o limiter foi encerrado (Close) antes da admissão.
	ErrLimiterClosed = errors.New("rate limiter closed")
	// ErrTransport: falha de conexão (DNS, timeout, reset).
	ErrTransport = errors.New("transport failure")
	// ErrAuth: status 401, token inválido ou expirado.
	ErrAuth = errors.New("authentication failed: wrong or expired token")
	// ErrHTTPStatus: qualquer outro status diferente de 200.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrDecode: corpo de sucesso malformado.
	ErrDecode = errors.New("malformed response body")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "must not be empty"
	}
	return fmt.Sprintf("%s: %s", e.Field, reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Reason }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// CancelledWaitError carrega o motivo do ctx (context.Canceled ou DeadlineExceeded).
type CancelledWaitError struct {
	Cause error
}

func (e *CancelledWaitError) Error() string {
	if e.Cause == nil {
		return ErrCancelledWait.Error()
	}
	return ErrCancelledWait.Error() + ": " + e.Cause.Error()
}

func (e *CancelledWaitError) Is(target error) bool { return target == ErrCancelledWait }
func (e *CancelledWaitError) Unwrap() error        { return e.Cause }

type TransportError struct {
	Err error
}

func (e *TransportError) Error() string        { return "transport: " + e.Err.Error() }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
func (e *TransportError) Unwrap() error        { return e.Err }

type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string        { return ErrAuth.Error() }
func (e *AuthError) Is(target error) bool { return target == ErrAuth }

// HTTPError guarda o corpo como texto opaco de diagnóstico.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string        { return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body) }
func (e *HTTPError) Is(target error) bool { return target == ErrHTTPStatus }

type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return ErrDecode.Error()
	}
	return ErrDecode.Error() + ": " + e.Err.Error()
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
func (e *DecodeError) Unwrap() error        { return e.Err }

// Outcome classifica o resultado de um envio para estatísticas/métricas.
// Mantém a cardinalidade baixa: um valor fixo por classe de erro.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrCancelledWait):
		return "cancelled"
	case errors.Is(err, ErrLimiterClosed):
		return "closed"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrHTTPStatus):
		return "http_status"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "unknown"
	}
}

// IsAuth indica se o chamador deve renovar a credencial.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}
