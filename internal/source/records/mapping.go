// Package records fetches rosters from a generic record store with a
// Kintone-shaped API: token-authenticated, offset/limit pagination, records
// keyed by arbitrary field codes. A field-mapping document names which
// field codes carry the identity and display name.
package records

import (
	"github.com/goccy/go-yaml"

	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
)

// FieldMapping names the record field codes to read the roster from.
// The document is YAML, which also accepts the JSON form the original
// action inputs used.
type FieldMapping struct {
	Email       string `yaml:"email" json:"email"`
	DisplayName string `yaml:"displayName" json:"displayName"`
}

// ParseFieldMapping parses a field-mapping document. The email field code
// is required; display name is optional and defaults to empty.
func ParseFieldMapping(doc string) (FieldMapping, error) {
	var m FieldMapping
	if err := yaml.Unmarshal([]byte(doc), &m); err != nil {
		return FieldMapping{}, errors.WrapParse("yaml", "field mapping", err)
	}
	if m.Email == "" {
		return FieldMapping{}, &errors.ValidationError{Field: "email", Message: "field mapping must name an email field code"}
	}
	return m, nil
}
