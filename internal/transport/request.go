package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
)

// DecodeResponse decodes a JSON response into the target structure. A
// non-2xx status or an undecodable body is a typed error; untyped data never
// passes this boundary.
func DecodeResponse(resp *http.Response, endpoint string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapFetch(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &errors.FetchError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}

	return nil
}
