// Package picasa uploads captures to Picasa web albums using the OAuth2 installed-app flow.
package picasa

import (
	"time"

	"github.com/snapkit-cli/snapkit/ini"
)

// Config is the Picasa section of the settings file. Tokens are stored encrypted.
type Config struct {
	*ini.Section

	UploadUser                 string
	UploadAlbum                string
	AddFilename                bool
	AfterUploadLinkToClipBoard bool
	RedirectHost               string

	RefreshToken       string
	AccessToken        string
	AccessTokenExpires time.Time
}

// NewConfig returns the Picasa section filled with defaults.
func NewConfig() *Config {
	c := &Config{}
	c.Section = ini.NewSection("Picasa", "Picasa upload configuration", c).Bind(
		ini.String("UploadUser", &c.UploadUser, "default", "The picasa user to upload to"),
		ini.String("UploadAlbum", &c.UploadAlbum, "default", "The picasa album to upload to"),
		ini.Bool("AddFilename", &c.AddFilename, false, "Is the filename passed on to Picasa"),
		ini.Bool("AfterUploadLinkToClipBoard", &c.AfterUploadLinkToClipBoard, true, "After upload send Picasa link to clipboard"),
		ini.String("RedirectHost", &c.RedirectHost, "127.0.0.1", "Interface the local authorization receiver listens on"),
		ini.Secret("RefreshToken", &c.RefreshToken, "Picasa refresh token"),
		ini.Secret("AccessToken", &c.AccessToken, "Picasa access token"),
		ini.Time("AccessTokenExpires", &c.AccessTokenExpires, time.Time{}, "Picasa access token expire date"),
	)
	return c
}

// IsAuthorized reports whether a refresh token is stored.
func (c *Config) IsAuthorized() bool {
	return c.RefreshToken != ""
}

// Logout forgets every stored token.
func (c *Config) Logout() {
	c.RefreshToken = ""
	c.AccessToken = ""
	c.AccessTokenExpires = time.Time{}
	c.IsDirty = true
}
