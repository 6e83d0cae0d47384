package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/yllada/vpn-status/common"
)

// maxBodySize caps provider responses.
const maxBodySize = 1 << 20

// Client performs lookups against the providers in order until one succeeds.
type Client struct {
	// HTTP is the client used for requests. Deadlines come from the context.
	HTTP *http.Client
	// Keys holds optional API keys, stored under the provider name.
	Keys common.CredentialStore
	// Cache, when set, short-circuits repeated lookups.
	Cache *Cache
	// Endpoints overrides provider URLs, keyed by provider name.
	Endpoints map[string]string
	// UserAgent is sent with every request.
	UserAgent string
}

// NewClient creates a client reading API keys from keys, which may be nil.
func NewClient(keys common.CredentialStore) *Client {
	return &Client{
		HTTP:      &http.Client{},
		Keys:      keys,
		UserAgent: common.AppName,
	}
}

// Lookup returns the public address using the named providers, or
// DefaultProviders when names is empty. The first successful provider wins.
func (c *Client) Lookup(ctx context.Context, names []string) (*Result, error) {
	if len(names) == 0 {
		names = DefaultProviders
	}

	list := make([]Provider, 0, len(names))
	for _, name := range names {
		p, err := ParseProvider(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrLookup, err)
		}
		list = append(list, p)
	}

	ordered := make([]string, len(list))
	for i, p := range list {
		ordered[i] = p.Name
	}
	if res, ok := c.Cache.Get(ordered); ok {
		common.LogDebug("Using cached lookup from %s", res.Provider)
		return res, nil
	}

	var errs []error
	for _, p := range list {
		res, err := c.fetch(ctx, p)
		if err != nil {
			common.LogDebug("Lookup via %s failed: %v", p.Name, err)
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if err := c.Cache.Put(res); err != nil {
			common.LogDebug("Failed to write lookup cache: %v", err)
		}
		return res, nil
	}

	return nil, fmt.Errorf("%w: %w", common.ErrLookup, errors.Join(errs...))
}

// fetch performs one provider request.
func (c *Client) fetch(ctx context.Context, p Provider) (*Result, error) {
	endpoint, err := c.endpoint(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", p.Name, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	return p.Decode(data)
}

// endpoint builds the request URL, adding the API key when one is stored.
func (c *Client) endpoint(p Provider) (string, error) {
	base := p.URL
	if override, ok := c.Endpoints[p.Name]; ok {
		base = override
	}

	key := c.apiKey(p)
	if key == "" {
		return base, nil
	}
	if p.KeyURL != "" && c.Endpoints[p.Name] == "" {
		base = p.KeyURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(p.KeyParam, key)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) apiKey(p Provider) string {
	if c.Keys == nil || p.KeyParam == "" {
		return ""
	}
	key, err := c.Keys.Get(p.Name)
	if err != nil {
		if !errors.Is(err, common.ErrCredentialsNotFound) {
			common.LogDebug("Could not read API key for %s: %v", p.Name, err)
		}
		return ""
	}
	return key
}
