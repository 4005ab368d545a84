// Package feed talks to a Mastodon-compatible server: it pages through
// an account's post history and publishes statuses.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
)

const (
	pageSize       = 40
	requestTimeout = 30 * time.Second
	retryBase      = 500 * time.Millisecond
	retryMax       = 3
)

// Account is the subset of the account entity the client needs.
type Account struct {
	ID       string `json:"id"`
	Acct     string `json:"acct"`
	Username string `json:"username"`
}

// Status is one post in a feed. Content is the rendered HTML body.
type Status struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Reblog  *Status `json:"reblog"`
}

// Client talks to one server. It is safe for concurrent use.
type Client struct {
	http *resty.Client
}

// New returns a client for the given server base URL. The token may be
// empty for read-only use of public endpoints.
func New(server, token string) *Client {
	c := resty.New().
		SetBaseURL(server).
		SetTimeout(requestTimeout).
		SetHeader("User-Agent", "tootmimic")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c}
}

// Lookup resolves an account name like "user" or "user@host" to the
// account entity on this server.
func (c *Client) Lookup(ctx context.Context, acct string) (*Account, error) {
	var account Account
	err := c.do(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetQueryParam("acct", acct).
			SetResult(&account).
			Get("/api/v1/accounts/lookup")
	})
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", acct, err)
	}
	return &account, nil
}

// Statuses pages backwards through an account's history, newest first,
// stopping after maxPosts posts, at sinceID, or at the end of the
// feed. Reblogs are dropped; the author's own words are what we want.
func (c *Client) Statuses(ctx context.Context, accountID string, maxPosts int, sinceID string) ([]Status, error) {
	var all []Status
	maxID := ""

	for len(all) < maxPosts {
		var page []Status
		err := c.do(ctx, func(ctx context.Context) (*resty.Response, error) {
			req := c.http.R().
				SetContext(ctx).
				SetQueryParam("limit", strconv.Itoa(pageSize)).
				SetQueryParam("exclude_reblogs", "true").
				SetResult(&page)
			if maxID != "" {
				req.SetQueryParam("max_id", maxID)
			}
			return req.Get("/api/v1/accounts/" + accountID + "/statuses")
		})
		if err != nil {
			return nil, fmt.Errorf("fetching statuses for %s: %w", accountID, err)
		}
		if len(page) == 0 {
			break
		}

		for _, st := range page {
			if st.Reblog != nil {
				continue
			}
			if sinceID != "" && !idAfter(st.ID, sinceID) {
				return all, nil
			}
			all = append(all, st)
		}
		maxID = page[len(page)-1].ID
	}

	return all, nil
}

// Post publishes a status and returns the created entity.
func (c *Client) Post(ctx context.Context, text string) (*Status, error) {
	var status Status
	err := c.do(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetFormData(map[string]string{"status": text}).
			SetResult(&status).
			Post("/api/v1/statuses")
	})
	if err != nil {
		return nil, fmt.Errorf("posting status: %w", err)
	}
	return &status, nil
}

// Publish posts text, discarding the created status. It satisfies the
// bot's Publisher interface.
func (c *Client) Publish(ctx context.Context, text string) error {
	_, err := c.Post(ctx, text)
	return err
}

// do runs one request, retrying rate limits and server errors with
// exponential backoff.
func (c *Client) do(ctx context.Context, fn func(context.Context) (*resty.Response, error)) error {
	backoff := retry.WithMaxRetries(retryMax, retry.NewExponential(retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := fn(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		code := resp.StatusCode()
		if code == http.StatusTooManyRequests || code >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("%s: %s", resp.Request.URL, resp.Status()))
		}
		if resp.IsError() {
			return fmt.Errorf("%s: %s", resp.Request.URL, resp.Status())
		}
		return nil
	})
}

// idAfter reports whether status ID a is newer than b. IDs are decimal
// strings, so a longer ID is always the larger one.
func idAfter(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}
