package launcher

import (
	"strconv"

	"msc/core/utils"
	"msc/feature/settings"
)

// Options are the arguments given to the server itself, after the jar.
//
// They are saved per server directory, so the yaml names match the configuration keys.
type Options struct {
	// GUI opens the server window; when false the server is started with --nogui.
	GUI          bool `mapstructure:"gui" yaml:"gui" default:"false"`
	BonusChest   bool `mapstructure:"bonus_chest" yaml:"bonus_chest" default:"false"`
	Demo         bool `mapstructure:"demo" yaml:"demo" default:"false"`
	EraseCache   bool `mapstructure:"erase_cache" yaml:"erase_cache" default:"false"`
	ForceUpgrade bool `mapstructure:"force_upgrade" yaml:"force_upgrade" default:"false"`
	InitSettings bool `mapstructure:"init_settings" yaml:"init_settings" default:"false"`
	SafeMode     bool `mapstructure:"safe_mode" yaml:"safe_mode" default:"false"`
	Singleplayer bool `mapstructure:"singleplayer" yaml:"singleplayer" default:"false"`
	// Port overrides server-port for this run; zero leaves it to the settings file.
	Port     int    `mapstructure:"port" yaml:"port" default:"0"`
	Universe string `mapstructure:"universe" yaml:"universe" default:""`
	World    string `mapstructure:"world" yaml:"world" default:""`
}

// OptionSchema lists the launch options the editor walks after the settings file.
var OptionSchema = []settings.Setting{
	{Name: "gui", Kind: settings.KindBool, Default: "false", Description: "Open the server window instead of running headless."},
	{Name: "port", Kind: settings.KindInt, Default: "0", Min: 0, Max: 65535, Description: "Port to listen on instead of server-port; 0 keeps server-port."},
	{Name: "world", Kind: settings.KindString, Default: "", Description: "World folder to load; empty keeps level-name."},
	{Name: "universe", Kind: settings.KindString, Default: "", Description: "Folder holding the worlds."},
	{Name: "bonus-chest", Kind: settings.KindBool, Default: "false", Description: "Add the bonus chest when a new world is created."},
	{Name: "demo", Kind: settings.KindBool, Default: "false", Description: "Show players the demo pop-up."},
	{Name: "erase-cache", Kind: settings.KindBool, Default: "false", Description: "Erase the lighting caches on startup."},
	{Name: "force-upgrade", Kind: settings.KindBool, Default: "false", Description: "Upgrade every chunk on startup."},
	{Name: "init-settings", Kind: settings.KindBool, Default: "false", Description: "Write server.properties and eula.txt, then quit."},
	{Name: "safe-mode", Kind: settings.KindBool, Default: "false", Description: "Load the world with the vanilla data pack only."},
	{Name: "singleplayer", Kind: settings.KindBool, Default: "false", Description: "Run offline without authentication. Insecure on a public network."},
}

// LookupOption returns the schema entry of the launch option name.
func LookupOption(name string) (settings.Setting, bool) {
	for _, s := range OptionSchema {
		if s.Name == name {
			return s, true
		}
	}
	return settings.Setting{}, false
}

func (o *Options) switches() map[string]*bool {
	return map[string]*bool{
		"gui":           &o.GUI,
		"bonus-chest":   &o.BonusChest,
		"demo":          &o.Demo,
		"erase-cache":   &o.EraseCache,
		"force-upgrade": &o.ForceUpgrade,
		"init-settings": &o.InitSettings,
		"safe-mode":     &o.SafeMode,
		"singleplayer":  &o.Singleplayer,
	}
}

// Get returns the text form of the launch option name.
func (o *Options) Get(name string) (string, bool) {
	if p, ok := o.switches()[name]; ok {
		return strconv.FormatBool(*p), true
	}
	switch name {
	case "port":
		return strconv.Itoa(o.Port), true
	case "world":
		return o.World, true
	case "universe":
		return o.Universe, true
	}
	return "", false
}

// Set validates value against the option schema and stores it.
// Rejected values and unknown names are a *settings.ValidationError.
func (o *Options) Set(name, value string) error {
	s, ok := LookupOption(name)
	if !ok {
		return &settings.ValidationError{Name: name, Value: value, Reason: "unknown launch option"}
	}
	value, err := s.Normalize(value)
	if err != nil {
		return err
	}

	if p, ok := o.switches()[name]; ok {
		*p = value == "true"
		return nil
	}
	switch name {
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return &settings.ValidationError{Name: name, Value: value, Reason: "expected a whole number"}
		}
		o.Port = port
	case "world":
		o.World = value
	case "universe":
		o.Universe = value
	}
	return nil
}

// Validate checks the option values.
func (o Options) Validate() error {
	if o.Port != 0 && (o.Port < 1 || o.Port > 65535) {
		return &settings.ValidationError{Name: "port", Value: strconv.Itoa(o.Port), Reason: "must be between 1 and 65535"}
	}
	if utils.HasLineBreak(o.Universe) {
		return &settings.ValidationError{Name: "universe", Value: o.Universe, Reason: "line breaks are not allowed"}
	}
	if utils.HasLineBreak(o.World) {
		return &settings.ValidationError{Name: "world", Value: o.World, Reason: "line breaks are not allowed"}
	}
	return nil
}

// Args renders the options as server arguments.
func (o Options) Args() []string {
	var args []string
	if !o.GUI {
		args = append(args, "--nogui")
	}

	flags := []struct {
		on   bool
		name string
	}{
		{o.BonusChest, "--bonusChest"},
		{o.Demo, "--demo"},
		{o.EraseCache, "--eraseCache"},
		{o.ForceUpgrade, "--forceUpgrade"},
		{o.InitSettings, "--initSettings"},
		{o.SafeMode, "--safeMode"},
		{o.Singleplayer, "--singleplayer"},
	}
	for _, f := range flags {
		if f.on {
			args = append(args, f.name)
		}
	}

	if o.Port != 0 {
		args = append(args, "--port", strconv.Itoa(o.Port))
	}
	if o.Universe != "" {
		args = append(args, "--universe", o.Universe)
	}
	if o.World != "" {
		args = append(args, "--world", o.World)
	}
	return args
}
