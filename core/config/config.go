package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"msc/core/logger"
	"msc/core/storage"
	"msc/feature/launcher"
	"msc/feature/settings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable (e.g. MSC_LOG_LEVEL).
const EnvPrefix = "MSC"

// Config holds all configuration for the application.
// It is divided into partial configurations owned by the packages that use them.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Settings holds configuration for the server settings file.
	Settings settings.Config `mapstructure:"settings"`
	// Launcher holds how Java is invoked.
	Launcher launcher.Config `mapstructure:"launcher"`
	// Server holds the options passed to the server jar.
	Server launcher.Options `mapstructure:"server"`
	// Storage holds configuration for settings backups in object storage.
	Storage storage.Config `mapstructure:"storage"`
}

// FlagKeys maps command line flags to configuration keys.
var FlagKeys = map[string]string{
	"settings-file": "settings.file",
	"log-level":     "log.level",
	"java":          "launcher.java_path",
	"min-memory":    "launcher.min_memory",
	"max-memory":    "launcher.max_memory",
	"jvm-flags":     "launcher.jvm_flags",
	"gui":           "server.gui",
	"port":          "server.port",
	"world":         "server.world",
	"universe":      "server.universe",
	"bonus-chest":   "server.bonus_chest",
	"demo":          "server.demo",
	"erase-cache":   "server.erase_cache",
	"force-upgrade": "server.force_upgrade",
	"init-settings": "server.init_settings",
	"safe-mode":     "server.safe_mode",
	"singleplayer":  "server.singleplayer",
	"backup":        "storage.enabled",
}

// LoadConfig loads configuration from defaults, the .env file in path, environment
// variables and, when flags is not nil, command line flags. Later sources win.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	return load(path, flags, func(*viper.Viper) error { return nil })
}

// LoadServerConfig is LoadConfig with the options file of serverDir merged in.
// The file ranks above defaults and below environment variables and flags.
func LoadServerConfig(path string, flags *pflag.FlagSet, fsys afero.Fs, serverDir string) (*Config, error) {
	return load(path, flags, func(v *viper.Viper) error {
		_, err := mergeOptionsFile(v, fsys, serverDir)
		return err
	})
}

func load(path string, flags *pflag.FlagSet, readFiles func(*viper.Viper) error) (*Config, error) {
	// Ignore error if file doesn't exist
	_ = godotenv.Load(filepath.Join(path, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	if err := readFiles(v); err != nil {
		return nil, err
	}

	// Map environment variables to nested keys (e.g. MSC_LAUNCHER_JAVA_PATH -> launcher.java_path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
