package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"registry-client/registry/domain"
)

// Interpret traduz (status, corpo) em resultado ou erro classificado:
//   - 401: *domain.AuthError (corpo descartado)
//   - 200: corpo JSON -> SubmissionResult, *domain.DecodeError se malformado
//   - outro: *domain.HTTPError com o corpo como texto
func Interpret(status int, body []byte) (domain.SubmissionResult, error) {
	switch status {
	case http.StatusUnauthorized:
		return domain.SubmissionResult{}, &domain.AuthError{StatusCode: status}
	case http.StatusOK:
	default:
		return domain.SubmissionResult{}, &domain.HTTPError{StatusCode: status, Body: string(body)}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.SubmissionResult{}, &domain.DecodeError{Err: errors.New("empty body")}
	}
	var res domain.SubmissionResult
	if err := json.Unmarshal(trimmed, &res); err != nil {
		return domain.SubmissionResult{}, &domain.DecodeError{Err: err}
	}
	return res, nil
}
