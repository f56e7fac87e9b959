package syncer

import (
	"fmt"

	"github.com/moneyforward-i/admina-sso-sync/internal/config"
	"github.com/moneyforward-i/admina-sso-sync/internal/destination/admina"
	"github.com/moneyforward-i/admina-sso-sync/internal/source/azuread"
	"github.com/moneyforward-i/admina-sso-sync/internal/source/records"
	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
)

// Source and destination names accepted by the dispatcher.
const (
	SourceAzureAD     = "azuread"
	SourceRecords     = "records"
	DestinationAdmina = "admina"
)

// NewSource builds the named source from configuration.
func NewSource(name string, cfg *config.Config) (Source, error) {
	switch name {
	case SourceAzureAD:
		return azuread.FromConfig(cfg)
	case SourceRecords:
		return records.FromConfig(cfg)
	default:
		return nil, fmt.Errorf("%w source: %q", errors.ErrUnsupported, name)
	}
}

// NewDestination builds the named destination from configuration.
func NewDestination(name string, cfg *config.Config) (Destination, error) {
	switch name {
	case DestinationAdmina:
		return admina.FromConfig(cfg)
	default:
		return nil, fmt.Errorf("%w destination: %q", errors.ErrUnsupported, name)
	}
}
