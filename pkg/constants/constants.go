// Package constants provides shared constants used throughout the sync
// engine. This includes API endpoints, timeouts, concurrency ceilings, and
// batching limits that should be consistent across the application.
package constants

import "time"

// API endpoint constants
const (
	// GraphEndpoint is the base URL of the Microsoft Graph API
	GraphEndpoint = "https://graph.microsoft.com/v1.0"

	// GraphAuthEndpoint is the authority host for the client-credentials grant
	GraphAuthEndpoint = "https://login.microsoftonline.com"

	// GraphScope is the OAuth scope requested for Graph access tokens
	GraphScope = "https://graph.microsoft.com/.default"

	// AdminaEndpoint is the base URL of the Admina API
	AdminaEndpoint = "https://api.itmc.i.moneyforward.com"

	// SSOServiceName is the Admina service under which SSO application
	// workspaces are registered
	SSOServiceName = "Single Sign-On"
)

// Timeout and freshness constants
const (
	// RequestTimeout is the fixed timeout for a single outbound API call
	RequestTimeout = 600 * time.Second

	// TokenRefreshBuffer is how long before expiry a cached token is
	// considered stale and refreshed
	TokenRefreshBuffer = 600 * time.Second
)

// Limit constants define concurrency and batching ceilings
const (
	// ChunkSize is the maximum number of accounts per bulk write request
	ChunkSize = 3000

	// ConcurrentRequests is the concurrency ceiling for fan-out batches
	// (application lookups, profile fetches, group preloading)
	ConcurrentRequests = 5

	// MaxItemsPerPage is the page size requested from paginated Graph
	// listings; the server may return fewer
	MaxItemsPerPage = 999

	// GraphRequestsPerSecond caps the outbound Graph request rate
	GraphRequestsPerSecond = 20
)

// SSOAppTags are the service-principal tags that mark an application as an
// SSO application. GalleryApplication is matched by prefix.
var SSOAppTags = []string{
	"WindowsAzureActiveDirectoryIntegratedApp",
	"WindowsAzureActiveDirectoryGalleryApplication",
	"WindowsAzureActiveDirectoryCustomSingleSignOnApplication",
}

// HiddenAppTag marks an application hidden from user portals; such
// applications are skipped unless register_disabled_app is set.
const HiddenAppTag = "HideApp"

// File permission constants
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
