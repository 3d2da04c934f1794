// Package social queries the social-media search API for recent posts about an actor.
package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/huangsam/marquee/internal/logger"
	"github.com/huangsam/marquee/schema"
)

const (
	baseURLDefault = "https://api.twitter.com"
	searchPath     = "/1.1/search/tweets.json"
	verifyPath     = "/1.1/account/verify_credentials.json"
	defaultCount   = 10
	defaultUA      = "marquee"
	errorBodyMax   = 512
)

var (
	// ErrAuth is returned when credentials are missing or rejected.
	ErrAuth = errors.New("social: authentication failed")

	// ErrNotAuthenticated is returned by Search before a successful Authenticate.
	ErrNotAuthenticated = errors.New("social: client not authenticated")

	// ErrUnexpectedStatus is returned for non-2xx search responses.
	ErrUnexpectedStatus = errors.New("social: unexpected status")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Credentials are the OAuth1 user-context keys for the search API.
type Credentials struct {
	ConsumerKey    string `validate:"required"`
	ConsumerSecret string `validate:"required"`
	AccessKey      string `validate:"required"`
	AccessSecret   string `validate:"required"`
}

// Validate reports every missing credential field.
func (c Credentials) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return fmt.Errorf("%w: missing credentials %s", ErrAuth, strings.Join(missing, ", "))
}

// Options configures the Client.
type Options struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration // zero means no timeout
	Count       int           // posts requested per search
	Verify      bool          // call verify_credentials during Authenticate
	Credentials Credentials
}

// Client is a minimal search API client. Authenticate once, then Search per actor.
type Client struct {
	opts Options
	rest *resty.Client
	log  *logger.Logger
}

// NewClient creates a new Client with sane defaults.
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Count <= 0 {
		o.Count = defaultCount
	}
	return &Client{opts: o, log: logger.Named("social")}
}

// Authenticate validates the credentials and builds the signed HTTP client.
// With Verify set, the credentials are also checked against the API.
func (c *Client) Authenticate(ctx context.Context) error {
	creds := c.opts.Credentials
	if err := creds.Validate(); err != nil {
		return err
	}

	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessKey, creds.AccessSecret)
	httpClient := config.Client(ctx, token)
	httpClient.Timeout = c.opts.Timeout

	rest := resty.NewWithClient(httpClient).
		SetBaseURL(c.opts.BaseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", c.opts.UserAgent)

	if c.opts.Verify {
		resp, err := rest.R().SetContext(ctx).Get(verifyPath)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAuth, err)
		}
		c.logResponse(resp, verifyPath)
		if resp.IsError() {
			return fmt.Errorf("%w: verify credentials returned status %d", ErrAuth, resp.StatusCode())
		}
	}

	c.rest = rest
	c.log.Info().Bool("verified", c.opts.Verify).Msg("authenticated to search API")
	return nil
}

// searchResponse is the envelope of the search endpoint.
type searchResponse struct {
	Statuses []schema.Post `json:"statuses"`
}

// Search returns the most recent posts mentioning displayName. An empty result is not an error.
func (c *Client) Search(ctx context.Context, displayName string) ([]schema.Post, error) {
	if c.rest == nil {
		return nil, ErrNotAuthenticated
	}
	query := schema.SearchQuery(displayName)
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":                query,
			"count":            strconv.Itoa(c.opts.Count),
			"result_type":      "recent",
			"include_entities": "false",
		}).
		Get(searchPath)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", query, err)
	}
	c.logResponse(resp, searchPath)

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: search returned status %d", ErrAuth, resp.StatusCode())
	case resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices:
		return nil, fmt.Errorf("%w %d for %s: %s", ErrUnexpectedStatus, resp.StatusCode(), query, truncate(resp.String(), errorBodyMax))
	}

	var out searchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if out.Statuses == nil {
		out.Statuses = []schema.Post{}
	}
	return out.Statuses, nil
}

func (c *Client) logResponse(resp *resty.Response, path string) {
	c.log.Debug().
		Str("method", resp.Request.Method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("latency", resp.Time()).
		Str("rate_remaining", resp.Header().Get("x-rate-limit-remaining")).
		Msg("search api response")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
