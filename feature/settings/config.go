package settings

// DefaultFileName is the file the Minecraft server reads its settings from.
const DefaultFileName = "server.properties"

// Config holds configuration for the settings store.
type Config struct {
	// FileName is the name of the settings file inside the server directory.
	FileName string `mapstructure:"file" default:"server.properties"`
}
