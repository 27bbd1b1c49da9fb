package infra

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"registry-client/registry/domain"
)

// Manifest é o arquivo YAML com os documentos que o cmd/submitter envia.
//
//	signature: "conteúdo p7s"          # ou signature_file
//	documents:
//	  - format: MANUAL
//	    group: milk
//	    type: LP_INTRODUCE_GOODS
//	    product_document: '{"goods":[...]}'
type Manifest struct {
	Signature     string            `yaml:"signature"`
	SignatureFile string            `yaml:"signature_file"`
	Documents     []domain.Document `yaml:"documents"`
}

// LoadManifest lê e decodifica o manifesto. Enums desconhecidos falham aqui;
// campos vazios ficam para application.Validate.
func LoadManifest(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(raw)
}

func ParseManifest(raw []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Signature == "" && m.SignatureFile != "" {
		sig, err := os.ReadFile(m.SignatureFile)
		if err != nil {
			return Manifest{}, fmt.Errorf("read signature file: %w", err)
		}
		m.Signature = strings.TrimSpace(string(sig))
	}
	if len(m.Documents) == 0 {
		return Manifest{}, fmt.Errorf("manifest has no documents")
	}
	return m, nil
}
