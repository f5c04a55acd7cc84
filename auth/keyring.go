// Package auth keeps the settings encryption key in the system keyring.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/snapkit-cli/snapkit/constant"
	"github.com/snapkit-cli/snapkit/ini"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/zalando/go-keyring"
)

const (
	service = constant.Snapkit + "-cli"
	user    = "settings-key"
)

// SettingsKey returns the settings encryption key, creating and storing one on first use.
func SettingsKey() ([]byte, error) {
	stored, err := keyring.Get(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return newSettingsKey()
	}
	if err != nil {
		return nil, fmt.Errorf("read settings key: %w", err)
	}

	key, err := base64.StdEncoding.DecodeString(stored)
	if err != nil || len(key) != ini.KeySize {
		return nil, errors.New("settings key in the keyring is corrupted")
	}
	return key, nil
}

func newSettingsKey() ([]byte, error) {
	key := make([]byte, ini.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}

	if err := keyring.Set(service, user, base64.StdEncoding.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("store settings key: %w", err)
	}

	log.Info("Created a new settings key in the keyring")
	return key, nil
}

// SettingsCipher returns the cipher built from the keyring key.
func SettingsCipher() (ini.Cipher, error) {
	key, err := SettingsKey()
	if err != nil {
		return nil, err
	}
	return ini.NewCipher(key)
}

// DeleteSettingsKey removes the key. Values encrypted with it can no longer be read.
func DeleteSettingsKey() error {
	err := keyring.Delete(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
