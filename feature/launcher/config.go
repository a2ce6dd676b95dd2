package launcher

import (
	"regexp"

	"msc/feature/settings"
)

// Config holds how the Java runtime is invoked.
type Config struct {
	// JavaPath is the Java executable, looked up on PATH when it has no separator.
	JavaPath string `mapstructure:"java_path" default:"java"`
	// MinMemory is the initial heap size passed as -Xms.
	MinMemory string `mapstructure:"min_memory" default:"1G"`
	// MaxMemory is the maximum heap size passed as -Xmx.
	MaxMemory string `mapstructure:"max_memory" default:"2G"`
	// JVMFlags are extra whitespace separated JVM flags placed before -jar.
	JVMFlags string `mapstructure:"jvm_flags" default:""`
	// StopTimeoutSeconds is how long the server gets to stop after being signalled
	// before it is killed.
	StopTimeoutSeconds int `mapstructure:"stop_timeout_seconds" default:"10"`
	// ServerDir replaces the platform default server directory.
	ServerDir string `mapstructure:"server_dir" default:""`
}

var memoryPattern = regexp.MustCompile(`^[1-9][0-9]*[kKmMgGtT]?$`)

// Validate checks the values that end up on the Java command line.
func (c Config) Validate() error {
	if c.JavaPath == "" {
		return &settings.ValidationError{Name: "java_path", Reason: "must not be empty"}
	}
	if c.MinMemory != "" && !memoryPattern.MatchString(c.MinMemory) {
		return &settings.ValidationError{Name: "min_memory", Value: c.MinMemory, Reason: "expected a size such as 512M or 2G"}
	}
	if c.MaxMemory != "" && !memoryPattern.MatchString(c.MaxMemory) {
		return &settings.ValidationError{Name: "max_memory", Value: c.MaxMemory, Reason: "expected a size such as 512M or 2G"}
	}
	return nil
}
