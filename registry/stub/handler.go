package stub

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"registry-client/registry/domain"
)

// Handler imita POST /lk/documents/create do registro.
//
//   - token ausente/diferente: 401
//   - corpo que não é JSON: 400 (texto)
//   - campos inválidos: 200 com code "400" e error_message
//   - ok: 200 com code "200" e value = uuid novo
type Handler struct {
	token string

	mu       sync.Mutex
	received []domain.SubmissionRequest
}

func NewHandler(token string) *Handler {
	return &Handler{token: token}
}

// Routes devolve o mux com a rota de criação registrada sob prefix (ex: "/api/v3").
func (h *Handler) Routes(prefix string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST "+strings.TrimRight(prefix, "/")+"/lk/documents/create", h)
	return mux
}

// Received devolve uma cópia das requisições aceitas até agora.
func (h *Handler) Received() []domain.SubmissionRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.SubmissionRequest(nil), h.received...)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if token, ok := bearerToken(r); !ok || token != h.token {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	var req domain.SubmissionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if msg := check(req, r.URL.Query().Get("pg")); msg != "" {
		writeResult(w, domain.SubmissionResult{Code: "400", ErrorMessage: msg, Description: "document rejected"})
		return
	}

	h.mu.Lock()
	h.received = append(h.received, req)
	h.mu.Unlock()

	writeResult(w, domain.SubmissionResult{
		Value:       uuid.NewString(),
		Code:        "200",
		Description: "document accepted",
	})
}

func check(req domain.SubmissionRequest, pg string) string {
	switch {
	case !domain.Format(req.DocumentFormat).Known():
		return "unknown document_format"
	case !domain.Type(req.Type).Known():
		return "unknown type"
	case !domain.Group(strings.ToUpper(req.ProductGroup)).Known():
		return "unknown product_group"
	case pg != req.ProductGroup:
		return "pg does not match product_group"
	}
	if _, err := base64.StdEncoding.DecodeString(req.ProductDocument); err != nil || req.ProductDocument == "" {
		return "product_document must be base64"
	}
	if _, err := base64.StdEncoding.DecodeString(req.Signature); err != nil || req.Signature == "" {
		return "signature must be base64"
	}
	return ""
}

func writeResult(w http.ResponseWriter, res domain.SubmissionResult) {
	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(res)
}
