// Package application contém os casos de uso do envio de documentos:
// validar, codificar, admitir, enviar e interpretar a resposta.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Submitter.SubmitDocument(ctx, doc, signature) retorna um SubmissionResult
// ou um erro classificado (domain.ValidationError, domain.AuthError, ...).
package application
