package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"medgate/pkg/domain"
)

// HTTPClient queries a remote identity oracle over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient constructs an oracle client against the given base URL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type credentialResponse struct {
	Holds bool `json:"holds"`
}

type suspensionResponse struct {
	Suspended bool `json:"suspended"`
}

func (c *HTTPClient) HoldsCredential(ctx context.Context, account domain.Account) (bool, error) {
	var resp credentialResponse
	if err := c.get(ctx, "credentials", account, &resp); err != nil {
		return false, err
	}
	return resp.Holds, nil
}

func (c *HTTPClient) IsSuspended(ctx context.Context, account domain.Account) (bool, error) {
	var resp suspensionResponse
	if err := c.get(ctx, "suspensions", account, &resp); err != nil {
		return false, err
	}
	return resp.Suspended, nil
}

func (c *HTTPClient) CompetencyRating(ctx context.Context, account domain.Account) (Rating, error) {
	var resp Rating
	if err := c.get(ctx, "ratings", account, &resp); err != nil {
		var le *LookupError
		// Accounts unknown to the oracle simply have no rating.
		if errors.As(err, &le) && le.Category == ErrorBadData && le.notFound {
			return Rating{}, nil
		}
		return Rating{}, err
	}
	return resp, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, account domain.Account, out any) error {
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, endpoint, url.PathEscape(account.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &LookupError{Category: ErrorBadData, Endpoint: endpoint, Underlying: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		category := ErrorOutage
		if errors.Is(err, context.DeadlineExceeded) {
			category = ErrorTimeout
		}
		return &LookupError{Category: category, Endpoint: endpoint, Underlying: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &LookupError{Category: ErrorBadData, Endpoint: endpoint, notFound: true,
			Underlying: fmt.Errorf("account %s not known to oracle", account)}
	case resp.StatusCode >= 500:
		return &LookupError{Category: ErrorOutage, Endpoint: endpoint,
			Underlying: fmt.Errorf("oracle returned status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return &LookupError{Category: ErrorBadData, Endpoint: endpoint,
			Underlying: fmt.Errorf("oracle returned status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &LookupError{Category: ErrorBadData, Endpoint: endpoint, Underlying: err}
	}
	return nil
}
