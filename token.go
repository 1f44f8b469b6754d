package cloudprint

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GoogleTokenURL is Google's OAuth 2.0 token endpoint.
const GoogleTokenURL = "https://oauth2.googleapis.com/token"

// RefreshTokenFields builds the form fields for a refresh_token grant.
func RefreshTokenFields(clientID, clientSecret, refreshToken string) url.Values {
	return url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"refresh_token": {refreshToken},
	}
}

// ExchangeRefreshToken posts fields to tokenURL and returns the access_token
// from the JSON response. The stored access token is left untouched; call
// SetAccessToken with the result to use it.
func (c *Client) ExchangeRefreshToken(ctx context.Context, tokenURL string, fields url.Values) (string, error) {
	if tokenURL == "" {
		return "", fmt.Errorf("%w: token URL is required", ErrInvalidArgument)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(fields.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.send(req)
	if err != nil {
		return "", fmt.Errorf("exchanging refresh token: %w", err)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}

	if err := parseResponse(resp, &tokenResp); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: token response has no access_token", ErrMalformedResponse)
	}

	return tokenResp.AccessToken, nil
}
