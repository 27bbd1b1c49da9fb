package application

import (
	"strings"

	"registry-client/registry/domain"
)

// Validate verifica se o documento está completo antes de qualquer serialização
// ou chamada de rede. Retorna *domain.ValidationError com o primeiro campo ausente.
func Validate(doc domain.Document) error {
	switch {
	case doc.Format == "":
		return &domain.ValidationError{Field: "format"}
	case !doc.Format.Known():
		return &domain.ValidationError{Field: "format", Reason: "unknown value " + string(doc.Format)}
	case strings.TrimSpace(doc.ProductDocument) == "":
		return &domain.ValidationError{Field: "product_document"}
	case doc.Group == "":
		return &domain.ValidationError{Field: "document_group"}
	case !doc.Group.Known():
		return &domain.ValidationError{Field: "document_group", Reason: "unknown value " + string(doc.Group)}
	case doc.Type == "":
		return &domain.ValidationError{Field: "type"}
	case !doc.Type.Known():
		return &domain.ValidationError{Field: "type", Reason: "unknown value " + string(doc.Type)}
	}
	return nil
}
