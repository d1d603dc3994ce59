// Package spotify is a thin client for the parts of the Spotify Web API
// the app consumes: recently played tracks, top tracks, playlists, search,
// and album cover art.
//
// Two auth modes are supported. App-only endpoints (search) use the
// client-credentials flow with the configured client ID and secret; the
// token is fetched lazily and refreshed before expiry. The /me endpoints
// require an already issued user bearer token supplied via configuration.
// The package performs no OAuth authorization flow itself.
//
// GET responses are cached through pkg/cache under HTTPKey-derived keys,
// so the CLI and the dashboard server share entries.
package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"

	"github.com/streamlytics/streamlytics/pkg/cache"
	"github.com/streamlytics/streamlytics/pkg/errors"
)

const (
	defaultAPIBase = "https://api.spotify.com/v1"
	defaultAuthURL = "https://accounts.spotify.com/api/token"

	// tokenSlack renews the app token this long before it expires.
	tokenSlack = 30 * time.Second
)

// Client talks to the Spotify Web API.
type Client struct {
	http    *resty.Client
	apiBase string
	authURL string

	clientID     string
	clientSecret string
	userToken    string

	cache    cache.Cache
	cacheTTL time.Duration
	logger   *log.Logger

	mu       sync.Mutex
	appToken string
	tokenExp time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithUserToken sets the bearer token used for /me endpoints.
func WithUserToken(token string) Option {
	return func(c *Client) { c.userToken = token }
}

// WithCache sets the response cache; the default is no caching.
func WithCache(ca cache.Cache) Option {
	return func(c *Client) { c.cache = ca }
}

// WithCacheTTL sets the lifetime of cached responses; the default is
// cache.DefaultTTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

// WithLogger sets the logger; the default discards nothing and logs to
// the charmbracelet default.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.apiBase = u }
}

// WithAuthURL overrides the token endpoint URL.
func WithAuthURL(u string) Option {
	return func(c *Client) { c.authURL = u }
}

// New creates a Client with the given app credentials.
func New(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		http:         resty.New().SetTimeout(30 * time.Second),
		apiBase:      defaultAPIBase,
		authURL:      defaultAuthURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		cache:        cache.NewNullCache(),
		cacheTTL:     cache.DefaultTTL,
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// appAccessToken returns a valid client-credentials token, fetching or
// renewing it as needed.
func (c *Client) appAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.appToken != "" && time.Now().Before(c.tokenExp.Add(-tokenSlack)) {
		return c.appToken, nil
	}
	if c.clientID == "" || c.clientSecret == "" {
		return "", errors.New(errors.ErrCodeUnauthorized, "spotify client credentials are not configured")
	}

	c.logger.Debug("Requesting client-credentials token")
	var tok tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.clientID, c.clientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody("grant_type=client_credentials").
		SetResult(&tok).
		Post(c.authURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "request access token")
	}
	if resp.StatusCode() != http.StatusOK {
		return "", errors.New(errors.ErrCodeUnauthorized, "token request failed with status %d", resp.StatusCode())
	}
	if tok.AccessToken == "" {
		return "", errors.New(errors.ErrCodeUnauthorized, "token response carried no access token")
	}

	c.appToken = tok.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.appToken, nil
}

// bearer returns the token for a request. User endpoints need the
// configured user token; everything else uses the app token.
func (c *Client) bearer(ctx context.Context, userEndpoint bool) (string, error) {
	if userEndpoint {
		if c.userToken == "" {
			return "", errors.New(errors.ErrCodeUnauthorized,
				"this operation needs a user token (set %s)", "SPOTIFY_USER_TOKEN")
		}
		return c.userToken, nil
	}
	return c.appAccessToken(ctx)
}

// get performs an authenticated GET and decodes the JSON response into
// out. Responses are cached; cache reads never fail a request.
func (c *Client) get(ctx context.Context, path string, query map[string]string, userEndpoint bool, out any) error {
	key := cache.HTTPKey(path, query)
	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		c.logger.Debugf("Cache hit for %s", path)
		return json.Unmarshal(data, out)
	}

	token, err := c.bearer(ctx, userEndpoint)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(query).
		Get(c.apiBase + path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", path)
	}
	if err := statusError(resp); err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "decode response for %s", path)
	}
	if err := c.cache.Set(ctx, key, resp.Body(), c.cacheTTL); err != nil {
		c.logger.Debugf("Cache write failed for %s: %v", path, err)
	}
	return nil
}

// statusError maps a non-2xx response to a structured error.
func statusError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}

	var apiErr apiError
	_ = json.Unmarshal(resp.Body(), &apiErr)
	msg := apiErr.Error.Message
	if msg == "" {
		msg = resp.Status()
	}

	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "spotify rejected the request: %s", msg)
	case http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s", msg)
	case http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header().Get("Retry-After"))
		return errors.Wrap(errors.ErrCodeRateLimited,
			&errors.RateLimitedError{RetryAfter: retryAfter, Message: msg},
			"spotify rate limit")
	default:
		return errors.New(errors.ErrCodeNetwork, "spotify returned status %d: %s", code, msg)
	}
}
