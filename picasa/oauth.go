package picasa

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/snapkit-cli/snapkit/log"
)

// ErrAccessDenied is returned when the user declines the authorization request.
var ErrAccessDenied = errors.New("access denied")

// OAuth2Settings carries everything the authorization code flow needs and the tokens it produces.
type OAuth2Settings struct {
	// AuthURLPattern may reference {ClientId}, {RedirectUrl}, {State} and any AdditionalAttributes key.
	AuthURLPattern string
	TokenURL       string

	ClientID     string
	ClientSecret string
	RedirectURL  string
	State        string

	AdditionalAttributes map[string]string

	RefreshToken       string
	AccessToken        string
	AccessTokenExpires time.Time
}

// FormattedAuthURL fills the placeholders of AuthURLPattern with query escaped values.
func (s *OAuth2Settings) FormattedAuthURL() string {
	pairs := []string{
		"{ClientId}", url.QueryEscape(s.ClientID),
		"{RedirectUrl}", url.QueryEscape(s.RedirectURL),
		"{State}", url.QueryEscape(s.State),
	}
	for k, v := range s.AdditionalAttributes {
		pairs = append(pairs, "{"+k+"}", url.QueryEscape(v))
	}

	return strings.NewReplacer(pairs...).Replace(s.AuthURLPattern)
}

// IsAccessTokenExpired reports whether the access token is missing or expires within a minute.
func (s *OAuth2Settings) IsAccessTokenExpired() bool {
	if s.AccessToken == "" || s.AccessTokenExpires.IsZero() {
		return true
	}
	return time.Now().Add(time.Minute).After(s.AccessTokenExpires)
}

// CodeReceiver obtains the authorization response, usually by letting the user log in with a browser.
type CodeReceiver interface {
	ReceiveCode(ctx context.Context, settings *OAuth2Settings) (map[string]string, error)
}

// OAuth2 runs the authorization code flow against one token endpoint.
type OAuth2 struct {
	HTTP     *http.Client
	Receiver CodeReceiver
}

// Authenticate lets the receiver obtain a code and exchanges it for tokens.
func (o *OAuth2) Authenticate(ctx context.Context, settings *OAuth2Settings) error {
	if settings.State == "" {
		settings.State = newState()
	}

	result, err := o.Receiver.ReceiveCode(ctx, settings)
	if err != nil {
		return err
	}

	if e, ok := result["error"]; ok && e != "" {
		if e == "access_denied" {
			return ErrAccessDenied
		}
		return fmt.Errorf("authorization failed: %s", e)
	}

	if result["state"] != settings.State {
		return errors.New("authorization state mismatch")
	}

	code, ok := result["code"]
	if !ok || code == "" {
		return errors.New("no authorization code received")
	}

	return o.GenerateToken(ctx, code, settings)
}

type tokenResponse struct {
	AccessToken      string  `json:"access_token"`
	RefreshToken     string  `json:"refresh_token"`
	ExpiresIn        float64 `json:"expires_in"`
	TokenType        string  `json:"token_type"`
	Error            string  `json:"error"`
	ErrorDescription string  `json:"error_description"`
}

// GenerateToken exchanges an authorization code for a refresh and an access token.
func (o *OAuth2) GenerateToken(ctx context.Context, code string, settings *OAuth2Settings) error {
	resp, err := o.requestToken(ctx, settings, url.Values{
		"code":          {code},
		"client_id":     {settings.ClientID},
		"redirect_uri":  {settings.RedirectURL},
		"client_secret": {settings.ClientSecret},
		"grant_type":    {"authorization_code"},
	})
	if err != nil {
		return err
	}

	settings.AccessToken = resp.AccessToken
	settings.RefreshToken = resp.RefreshToken
	if resp.ExpiresIn > 0 {
		settings.AccessTokenExpires = time.Now().Add(time.Duration(resp.ExpiresIn * float64(time.Second)))
	}
	return nil
}

// GenerateAccessToken uses the refresh token to obtain a new access token.
func (o *OAuth2) GenerateAccessToken(ctx context.Context, settings *OAuth2Settings) error {
	resp, err := o.requestToken(ctx, settings, url.Values{
		"refresh_token": {settings.RefreshToken},
		"client_id":     {settings.ClientID},
		"client_secret": {settings.ClientSecret},
		"grant_type":    {"refresh_token"},
	})
	if err != nil {
		return err
	}

	settings.AccessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		settings.RefreshToken = resp.RefreshToken
	}
	if resp.ExpiresIn > 0 {
		settings.AccessTokenExpires = time.Now().Add(time.Duration(resp.ExpiresIn * float64(time.Second)))
	}
	return nil
}

func (o *OAuth2) requestToken(ctx context.Context, settings *OAuth2Settings, form url.Values) (*tokenResponse, error) {
	body, err := o.HTTPPost(ctx, settings.TokenURL, form, settings)
	if err != nil {
		return nil, err
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}

	if resp.Error != "" {
		if resp.ErrorDescription != "" {
			return nil, fmt.Errorf("token request failed: %s: %s", resp.Error, resp.ErrorDescription)
		}
		return nil, fmt.Errorf("token request failed: %s", resp.Error)
	}

	if resp.AccessToken == "" {
		return nil, errors.New("no access token in response")
	}

	return &resp, nil
}

// HTTPPost posts a form and returns the response body. The access token, when present, is sent as a Bearer token.
func (o *OAuth2) HTTPPost(ctx context.Context, target string, form url.Values, settings *OAuth2Settings) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if settings.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+settings.AccessToken)
	}

	resp, err := o.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// token endpoints report errors as JSON with a 400 status
	if resp.StatusCode >= http.StatusInternalServerError ||
		(resp.StatusCode >= http.StatusBadRequest && !strings.Contains(resp.Header.Get("Content-Type"), "json")) {
		log.Errorf("POST %s: %s: %s", target, resp.Status, body)
		return nil, fmt.Errorf("POST %s: %s", target, resp.Status)
	}

	return body, nil
}

func newState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
