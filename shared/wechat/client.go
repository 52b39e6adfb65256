// Package wechat exchanges mini-program login codes for provider sessions and
// decrypts the provider-encrypted user profile payload.
package wechat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/vasapolrittideah/minishop-api/shared/apperror"
)

// DefaultBaseURL is the provider's API origin.
const DefaultBaseURL = "https://api.weixin.qq.com"

const exchangeTimeout = 10 * time.Second

// Session is the result of a successful code exchange.
type Session struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
}

// SessionProvider exchanges a one-time login code for a provider session.
type SessionProvider interface {
	ExchangeCode(ctx context.Context, code string) (*Session, error)
}

// Client calls the provider's code-exchange endpoint with the configured app
// credentials.
type Client struct {
	appID      string
	appSecret  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new provider client. baseURL may be empty to use the
// production endpoint; tests point it at a local server.
func NewClient(appID, appSecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		appID:      appID,
		appSecret:  appSecret,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: exchangeTimeout},
	}
}

type exchangeResponse struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// ExchangeCode performs the jscode2session call. Any transport fault, provider
// error code, or missing session key is a system error; the caller never sees
// provider detail.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	query := url.Values{}
	query.Set("grant_type", "authorization_code")
	query.Set("appid", c.appID)
	query.Set("secret", c.appSecret)
	query.Set("js_code", code)

	endpoint := c.baseURL + "/sns/jscode2session?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.NewSystem("failed to build code exchange request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewSystem("code exchange request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewSystem("code exchange returned unexpected status", nil)
	}

	var exchange exchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&exchange); err != nil {
		return nil, apperror.NewSystem("failed to decode code exchange response", err)
	}

	// The provider reports failures with a 200 status and an error code in
	// the body.
	if exchange.ErrCode != 0 || exchange.SessionKey == "" {
		return nil, apperror.NewSystem("code exchange returned no session", nil)
	}

	return &Session{OpenID: exchange.OpenID, SessionKey: exchange.SessionKey}, nil
}
