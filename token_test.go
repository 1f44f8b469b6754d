package cloudprint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enthus-golang/cloudprint/cloudprinttest"
)

func TestRefreshTokenFields(t *testing.T) {
	fields := RefreshTokenFields("id", "secret", "refresh")

	assert.Equal(t, "refresh_token", fields.Get("grant_type"))
	assert.Equal(t, "id", fields.Get("client_id"))
	assert.Equal(t, "secret", fields.Get("client_secret"))
	assert.Equal(t, "refresh", fields.Get("refresh_token"))
}

func TestClient_ExchangeRefreshToken(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		want        string
		wantErr     error
		errContains string
	}{
		{
			name: "successful exchange",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "refresh", r.PostForm.Get("refresh_token"))

				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"access_token": "new-token",
					"expires_in":   3600,
					"token_type":   "Bearer",
				})
			},
			want: "new-token",
		},
		{
			name: "missing access_token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"token_type": "Bearer",
				})
			},
			wantErr:     ErrMalformedResponse,
			errContains: "no access_token",
		},
		{
			name: "body is not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("nope"))
			},
			wantErr: ErrMalformedResponse,
		},
		{
			name: "rejected grant",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			},
			wantErr:     ErrTransport,
			errContains: "request failed with status 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := New(WithAccessToken("old-token"))
			got, err := client.ExchangeRefreshToken(context.Background(), server.URL+"/token", RefreshTokenFields("id", "secret", "refresh"))

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, "old-token", client.GetAccessToken(), "exchange must not replace the stored token")
		})
	}
}

func TestClient_ExchangeRefreshToken_fakeProvider(t *testing.T) {
	srv := cloudprinttest.NewServer()
	defer srv.Close()
	srv.SetRefreshToken("good")

	client := New(WithBaseURL(srv.URL))

	token, err := client.ExchangeRefreshToken(context.Background(), srv.TokenURL(), RefreshTokenFields("id", "secret", "good"))
	require.NoError(t, err)
	assert.Equal(t, srv.Token(), token)

	_, err = client.ExchangeRefreshToken(context.Background(), srv.TokenURL(), RefreshTokenFields("id", "secret", "bad"))
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_ExchangeRefreshToken_requiresURL(t *testing.T) {
	_, err := New().ExchangeRefreshToken(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
