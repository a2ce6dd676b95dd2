// Package config provides configuration management for msc.
//
// It utilizes Viper for loading configuration from defaults, a .env file,
// environment variables and command-line flags, in increasing order of precedence.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Log: logging level and format (MSC_LOG_LEVEL, MSC_LOG_FORMAT)
//   - Settings: name of the server settings file (MSC_SETTINGS_FILE)
//   - Launcher: Java path, heap sizes, JVM flags, stop timeout, server directory (MSC_LAUNCHER_*)
//   - Server: options passed to the server jar (MSC_SERVER_*)
//   - Storage: S3/MinIO credentials and bucket for settings backups (MSC_STORAGE_*)
//
// Defaults are declared with `default` struct tags next to each field.
//
// # Server directory options
//
// Each server directory may hold msc.yaml with the launch options saved for it
// (a server section, plus any other section). LoadServerConfig merges it between
// the defaults and the environment, so environment variables and flags still win.
// ReadOptions and WriteOptions read and atomically replace the saved server section
// alone.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".", cmd.Flags())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Launcher.JavaPath)
package config
