package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/propsum/propsum/errors"
)

// WriteDefault writes a propsum.toml containing the default configuration
// to the given path. Credentials are never written; the token is read from
// the environment at load time.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists: %s", path)
	}

	v := viper.New()
	SetDefaults(v)

	settings := v.AllSettings()
	if publish, ok := settings["publish"].(map[string]interface{}); ok {
		delete(publish, "token")
	}

	content, err := toml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "failed to marshal default config")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "failed to create config directory %s", dir)
		}
	}

	if err := os.WriteFile(path, content, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write config to %s", path)
	}

	return nil
}
