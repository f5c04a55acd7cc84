// Package app wires the settings, registries and plugins together.
package app

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/auth"
	"github.com/snapkit-cli/snapkit/destination"
	"github.com/snapkit-cli/snapkit/filesystem"
	"github.com/snapkit-cli/snapkit/ini"
	"github.com/snapkit-cli/snapkit/key"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/picasa"
	"github.com/snapkit-cli/snapkit/plugin"
	"github.com/snapkit-cli/snapkit/plugin/script"
	"github.com/snapkit-cli/snapkit/processor"
	"github.com/snapkit-cli/snapkit/settings"
	"github.com/snapkit-cli/snapkit/where"
	"github.com/spf13/viper"
)

// Options control how the application is assembled.
type Options struct {
	SettingsPath string
	PluginsDir   string

	Plugins    bool
	LuaPlugins bool
	UseKeyring bool
	History    bool

	PicasaClientID     string
	PicasaClientSecret string
}

// OptionsFromConfig reads the options from the application config.
func OptionsFromConfig() Options {
	return Options{
		SettingsPath:       where.Settings(),
		PluginsDir:         where.Plugins(),
		Plugins:            viper.GetBool(key.PluginsEnable),
		LuaPlugins:         viper.GetBool(key.PluginsLua),
		UseKeyring:         viper.GetBool(key.SettingsUseKeyring),
		History:            viper.GetBool(key.ExportHistory),
		PicasaClientID:     viper.GetString(key.PicasaClientID),
		PicasaClientSecret: viper.GetString(key.PicasaClientSecret),
	}
}

// App owns everything a command needs.
type App struct {
	Options Options

	Settings *ini.File
	Core     *settings.Core
	Picasa   *picasa.Config
	Uploader *picasa.Uploader

	Destinations *destination.Registry
	Processors   *processor.Registry
	Plugins      *plugin.Host

	scripts []*script.Plugin
}

// New loads the settings and builds both registries.
// A duplicate built-in designation is a programming error and aborts the construction.
func New(options Options) (*App, error) {
	if options.UseKeyring {
		cipher, err := auth.SettingsCipher()
		if err != nil {
			return nil, fmt.Errorf("settings key: %w", err)
		}
		ini.UseCipher(cipher)
	}

	a := &App{
		Options:  options,
		Settings: ini.NewFile(options.SettingsPath),
		Core:     settings.NewCore(),
		Picasa:   picasa.NewConfig(),
		Plugins:  &plugin.Host{},
	}

	a.Settings.Register(a.Core.Section, a.Picasa.Section)
	if err := a.Settings.Load(); err != nil {
		return nil, err
	}

	a.Uploader = picasa.NewUploader(a.Picasa, options.PicasaClientID, options.PicasaClientSecret)

	a.Destinations = destination.NewRegistry(a.Core.ExcludeDestinations...)
	if err := a.Destinations.Discover(destination.Builtins(a.Core)); err != nil {
		return nil, err
	}

	a.Processors = processor.NewRegistry()
	if err := a.Processors.Discover(processor.Builtins(a.Core)); err != nil {
		return nil, err
	}

	if options.Plugins {
		a.loadPlugins()
		a.Plugins.Attach(a.Destinations, a.Processors)
	}

	return a, nil
}

func (a *App) loadPlugins() {
	a.Plugins.Add(picasa.NewPlugin(a.Uploader))

	if !a.Options.LuaPlugins {
		return
	}

	scripts, err := script.LoadAll(a.Options.PluginsDir)
	if err != nil {
		log.Warnf("Can't read plugins from %s: %v", a.Options.PluginsDir, err)
		return
	}

	a.scripts = scripts
	a.Plugins.Add(lo.Map(scripts, func(s *script.Plugin, _ int) plugin.Plugin { return s })...)
}

// Save writes the settings file when a section changed or the file does not exist yet.
func (a *App) Save() error {
	exists, err := filesystem.API().Exists(a.Settings.Path())
	if err != nil {
		return err
	}

	if exists && !a.Settings.IsDirty() {
		return nil
	}
	return a.Settings.Save()
}

// Close releases the plugin scripts.
func (a *App) Close() {
	for _, s := range a.scripts {
		s.Close()
	}
	a.scripts = nil
}
