package application

import (
	"encoding/base64"

	"registry-client/registry/domain"
)

// Encode monta o corpo da requisição a partir de um documento já validado.
func Encode(doc domain.Document, signature string) domain.SubmissionRequest {
	return domain.SubmissionRequest{
		DocumentFormat:  string(doc.Format),
		ProductDocument: base64.StdEncoding.EncodeToString([]byte(doc.ProductDocument)),
		ProductGroup:    doc.Group.APIValue(),
		Signature:       base64.StdEncoding.EncodeToString([]byte(signature)),
		Type:            string(doc.Type),
	}
}
