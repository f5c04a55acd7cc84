package picasa

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/network"
)

const (
	Scope            = "https://picasaweb.google.com/data/"
	AuthURLPattern   = "https://accounts.google.com/o/oauth2/auth?response_type={response_type}&client_id={ClientId}&redirect_uri={RedirectUrl}&state={State}&scope={scope}"
	TokenURL         = "https://www.googleapis.com/oauth2/v3/token"
	UploadURLPattern = "https://picasaweb.google.com/data/feed/api/user/%s/albumid/%s"
)

// ErrNoLink is returned when the upload response contains no link to the photo.
var ErrNoLink = errors.New("no link in upload response")

// Uploader sends captures to Picasa, authorizing first when no tokens are stored.
type Uploader struct {
	Config       *Config
	ClientID     string
	ClientSecret string

	OAuth *OAuth2

	// Endpoints, overridable for testing.
	AuthURLPattern   string
	TokenURL         string
	UploadURLPattern string
}

// NewUploader returns an uploader talking to the Picasa endpoints with the shared HTTP client.
func NewUploader(config *Config, clientID, clientSecret string) *Uploader {
	return &Uploader{
		Config:       config,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		OAuth: &OAuth2{
			HTTP:     network.Client,
			Receiver: &LocalServerReceiver{Host: config.RedirectHost},
		},
		AuthURLPattern:   AuthURLPattern,
		TokenURL:         TokenURL,
		UploadURLPattern: UploadURLPattern,
	}
}

// settings copies the stored tokens into fresh OAuth2 settings.
func (u *Uploader) settings() *OAuth2Settings {
	return &OAuth2Settings{
		AuthURLPattern: u.AuthURLPattern,
		TokenURL:       u.TokenURL,
		ClientID:       u.ClientID,
		ClientSecret:   u.ClientSecret,
		AdditionalAttributes: map[string]string{
			"response_type": "code",
			"scope":         Scope,
		},
		RefreshToken:       u.Config.RefreshToken,
		AccessToken:        u.Config.AccessToken,
		AccessTokenExpires: u.Config.AccessTokenExpires,
	}
}

// store copies the tokens back into the configuration, marking it dirty when they changed.
func (u *Uploader) store(s *OAuth2Settings) {
	c := u.Config
	if c.RefreshToken == s.RefreshToken && c.AccessToken == s.AccessToken && c.AccessTokenExpires.Equal(s.AccessTokenExpires) {
		return
	}

	c.RefreshToken = s.RefreshToken
	c.AccessToken = s.AccessToken
	c.AccessTokenExpires = s.AccessTokenExpires
	c.IsDirty = true
}

// Authorize runs the authorization flow unconditionally and stores the tokens.
func (u *Uploader) Authorize(ctx context.Context) error {
	s := u.settings()
	defer u.store(s)

	return u.OAuth.Authenticate(ctx, s)
}

// Upload posts the surface to the configured album and returns the link to the photo.
// Tokens obtained on the way are stored even when the upload itself fails.
func (u *Uploader) Upload(ctx context.Context, surface *capture.Surface, title, filename string) (string, error) {
	s := u.settings()
	defer u.store(s)

	if s.RefreshToken == "" {
		if err := u.OAuth.Authenticate(ctx, s); err != nil {
			return "", err
		}
	}

	if s.IsAccessTokenExpired() {
		if err := u.OAuth.GenerateAccessToken(ctx, s); err != nil {
			return "", fmt.Errorf("refresh access token: %w", err)
		}
	}

	target := fmt.Sprintf(u.UploadURLPattern, url.PathEscape(u.Config.UploadUser), url.PathEscape(u.Config.UploadAlbum))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(surface.Data))
	if err != nil {
		return "", err
	}

	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	req.Header.Set("Content-Type", surface.ContentType())
	if u.Config.AddFilename && filename != "" {
		req.Header.Set("Slug", url.PathEscape(filename))
	}

	log.Infof("Uploading %q to %s", title, target)
	resp, err := u.OAuth.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		log.Errorf("Picasa upload failed: %s: %s", resp.Status, body)
		return "", fmt.Errorf("upload: %s", resp.Status)
	}

	return ParseResponse(body)
}

// ParseResponse extracts the photo link from an Atom entry.
// The link whose rel ends with "canonical" wins, otherwise the last link is used.
func ParseResponse(response []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(response))

	var link string
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Errorf("Could not parse Picasa response: %v, response was: %s", err, response)
			return "", fmt.Errorf("parse upload response: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "link" {
			continue
		}

		var href, rel string
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "href":
				href = attr.Value
			case "rel":
				rel = attr.Value
			}
		}

		if href == "" {
			continue
		}

		link = href
		if strings.HasSuffix(rel, "canonical") {
			break
		}
	}

	if link == "" {
		return "", ErrNoLink
	}
	return link, nil
}
