package domain

// SubmissionRequest é o corpo JSON enviado para /lk/documents/create.
//
// Construído por application.Encode a partir de um Document validado.
type SubmissionRequest struct {
	DocumentFormat  string `json:"document_format"`
	ProductDocument string `json:"product_document"`
	ProductGroup    string `json:"product_group"`
	Signature       string `json:"signature"`
	Type            string `json:"type"`
}

// SubmissionResult é a resposta do registro no caminho de sucesso (HTTP 200).
//
// Code é o código lógico devolvido no corpo; não confundir com o status HTTP.
type SubmissionResult struct {
	Value        string `json:"value"`
	Code         string `json:"code"`
	ErrorMessage string `json:"error_message"`
	Description  string `json:"description"`
}

func (r SubmissionResult) IsSuccess() bool { return r.Code == "200" }
