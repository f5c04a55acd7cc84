// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern terminal output.
const (
	CliColored   = "cli.colored"
	IconsVariant = "icons.variant"
)

// Plugin Loading - these keys control which plugin sources are attached to the registries.
const (
	PluginsEnable = "plugins.enable"
	PluginsLua    = "plugins.lua"
)

// Capture Settings - these keys govern the INI settings file and its encryption.
const (
	SettingsUseKeyring = "settings.use_keyring"
)

// Export Behaviour - these keys tune what happens around a single export run.
const (
	ExportHistory = "export.history"
)

// Picasa Service Integration - OAuth client credentials for the Picasa upload plugin.
const (
	PicasaClientID     = "picasa.client_id"
	PicasaClientSecret = "picasa.client_secret"
)
