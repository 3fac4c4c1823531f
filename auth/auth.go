// Package auth handles client-credentials authentication for outbound
// calls to the booking platform.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCred caches an access token obtained with the client
// credentials flow and refreshes it when it expires. Safe for use from
// concurrent requests.
type ClientCred struct {
	grant clientcredentials.Config

	mu    sync.Mutex
	token *oauth2.Token
}

// NewClientCred creates a credential cache for the configuration.
func NewClientCred(conf Conf) *ClientCred {
	return &ClientCred{grant: conf.grant()}
}

// Token returns a valid access token, fetching a fresh one when the
// cached token is missing or expired.
func (c *ClientCred) Token(ctx context.Context) (string, error) {
	tok, err := c.current(ctx, false)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Refresh discards the cached token and fetches a new one. Used when
// the booking platform revokes tokens before their stated expiry.
func (c *ClientCred) Refresh(ctx context.Context) (string, error) {
	tok, err := c.current(ctx, true)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// SetAuthHeader stamps the Authorization header on the request,
// fetching a token first if needed.
func (c *ClientCred) SetAuthHeader(ctx context.Context, r *http.Request) error {
	tok, err := c.current(ctx, false)
	if err != nil {
		return err
	}
	tok.SetAuthHeader(r)
	return nil
}

func (c *ClientCred) current(ctx context.Context, force bool) (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !force && c.token.Valid() {
		return c.token, nil
	}
	tok, err := c.grant.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch token: %w", err)
	}
	c.token = tok
	return tok, nil
}
