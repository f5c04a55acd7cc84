// Package config holds the application configuration: the registered keys, their defaults and the viper setup.
package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/snapkit-cli/snapkit/constant"
	"github.com/snapkit-cli/snapkit/filesystem"
	"github.com/snapkit-cli/snapkit/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer turns a key such as picasa.client_id into the env suffix PICASA_CLIENT_ID.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

const fileType = "toml"

// File returns the path viper reads and writes.
func File() string {
	return filepath.Join(where.Config(), constant.Snapkit+"."+fileType)
}

// Setup registers defaults and env bindings, then reads File if it exists.
// Values resolve in the order flag, env SNAPKIT_*, file, default.
func Setup() error {
	viper.SetConfigName(constant.Snapkit)
	viper.SetConfigType(fileType)
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Snapkit)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}
	return err
}
