package azuread

import (
	"context"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/jonboulle/clockwork"

	"github.com/moneyforward-i/admina-sso-sync/internal/config"
	"github.com/moneyforward-i/admina-sso-sync/pkg/constants"
	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
)

var scopes = []string{constants.GraphScope}

// TokenProvider is the azcore-shaped credential boundary. The default
// implementation is azidentity's client-secret credential; tests substitute
// a fake.
type TokenProvider interface {
	GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error)
}

// TokenManager caches a bearer token and refreshes it before expiry. A run
// can outlive a token's lifetime, so every outbound call asks the manager
// for a token instead of holding one.
type TokenManager struct {
	provider TokenProvider
	tenant   string
	buffer   time.Duration
	clock    clockwork.Clock

	mu     sync.Mutex
	cached azcore.AccessToken
}

// TokenManagerOption configures a TokenManager.
type TokenManagerOption func(*TokenManager)

// WithClock replaces the clock used for expiry arithmetic (tests).
func WithClock(clock clockwork.Clock) TokenManagerOption {
	return func(m *TokenManager) { m.clock = clock }
}

// WithRefreshBuffer overrides how long before expiry a token is refreshed.
func WithRefreshBuffer(buffer time.Duration) TokenManagerOption {
	return func(m *TokenManager) { m.buffer = buffer }
}

// NewTokenManager creates a token manager over the given provider.
func NewTokenManager(provider TokenProvider, tenant string, opts ...TokenManagerOption) *TokenManager {
	m := &TokenManager{
		provider: provider,
		tenant:   tenant,
		buffer:   constants.TokenRefreshBuffer,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewClientSecretTokenManager creates a token manager backed by the
// client-credentials grant for the configured tenant.
func NewClientSecretTokenManager(cfg config.AzureAD, opts ...TokenManagerOption) (*TokenManager, error) {
	cred, err := azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)
	if err != nil {
		return nil, errors.NewCredentialError(cfg.TenantID, err)
	}
	return NewTokenManager(cred, cfg.TenantID, opts...), nil
}

// Token returns a token with at least the refresh buffer of lifetime left,
// refreshing the cached one if needed. Refresh failure is fatal to the run:
// no directory call can succeed without a credential.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached.Token != "" && m.clock.Now().Before(m.cached.ExpiresOn.Add(-m.buffer)) {
		return m.cached.Token, nil
	}

	logging.FromContext(ctx).Debug().Str("tenant", m.tenant).Msg("Refreshing access token")
	token, err := m.provider.GetToken(ctx, policy.TokenRequestOptions{Scopes: scopes})
	if err != nil {
		return "", errors.NewCredentialError(m.tenant, err)
	}
	m.cached = token
	return token.Token, nil
}
