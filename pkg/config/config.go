// Package config loads and persists the process-wide bridge settings.
// The only setting that matters to the core is the bridge root directory;
// it is read at the start of every export or import and persisted between
// sessions. Layering: built-in defaults, then the user's TOML file under
// the XDG config home, then MESHBRIDGE_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/meshbridge/meshbridge/pkg/errors"
)

const (
	// EnvPrefix namespaces the environment overrides.
	EnvPrefix = "MESHBRIDGE_"

	appDirName     = "meshbridge"
	configFileName = "meshbridge.toml"
)

// Settings is the persisted bridge configuration.
type Settings struct {
	// BridgeRoot is the shared directory both applications exchange
	// manifests and geometry files through.
	BridgeRoot string `koanf:"bridge_root" toml:"bridge_root"`

	// ContentDir is the directory the built-in directory host serves
	// assets from. Engine integrations ignore it.
	ContentDir string `koanf:"content_dir" toml:"content_dir"`

	// DeleteGeneratedAssets opts retargeting into deleting auto-generated
	// skeletons and physics assets after rebinding.
	DeleteGeneratedAssets bool `koanf:"delete_generated_assets" toml:"delete_generated_assets"`
}

// Path returns the location of the user configuration file.
func Path() string {
	return filepath.Join(xdg.ConfigHome, appDirName, configFileName)
}

// Load builds the effective settings from defaults, the user file and the
// environment.
func Load() (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	path := Path()
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var settings Settings
	if err := k.UnmarshalWithConf("", &settings, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &settings,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid configuration")
	}

	return &settings, nil
}

// Save persists the settings to the user configuration file, creating its
// directory when needed.
func Save(settings *Settings) error {
	data, err := gotoml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "settings not serializable")
	}

	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "cannot create config directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "cannot write %s", path)
	}
	return nil
}

// rawBytesProvider feeds embedded bytes to koanf.
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "rawBytesProvider does not support Read")
}
