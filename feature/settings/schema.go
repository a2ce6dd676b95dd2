package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"msc/core/utils"
)

// Kind is the value type of a setting.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return "string"
	}
}

// Setting describes one known entry of the settings file.
type Setting struct {
	Name        string
	Kind        Kind
	Default     string
	Description string
	// Choices restricts a string setting to a fixed set of values.
	Choices []string
	// Min and Max bound an int setting (inclusive).
	Min, Max int
	// Required rejects the empty string.
	Required bool
}

// Schema lists the settings the editor walks, in prompt order.
var Schema = []Setting{
	{Name: "motd", Kind: KindString, Default: "A Minecraft Server", Description: "Message shown in the server list."},
	{Name: "difficulty", Kind: KindString, Default: "easy", Choices: []string{"peaceful", "easy", "normal", "hard"}, Description: "World difficulty."},
	{Name: "gamemode", Kind: KindString, Default: "survival", Choices: []string{"survival", "creative", "adventure", "spectator"}, Description: "Game mode for new players."},
	{Name: "hardcore", Kind: KindBool, Default: "false", Description: "Players are set to spectator mode when they die."},
	{Name: "pvp", Kind: KindBool, Default: "true", Description: "Players can damage each other."},
	{Name: "online-mode", Kind: KindBool, Default: "true", Description: "Authenticate players against Mojang. Disable only on trusted networks."},
	{Name: "white-list", Kind: KindBool, Default: "false", Description: "Only whitelisted players may join."},
	{Name: "enable-command-block", Kind: KindBool, Default: "false", Description: "Command blocks are allowed to run."},
	{Name: "allow-flight", Kind: KindBool, Default: "false", Description: "Players are not kicked for flying."},
	{Name: "max-players", Kind: KindInt, Default: "20", Min: 0, Max: math.MaxInt32, Description: "Maximum number of players online at once."},
	{Name: "server-port", Kind: KindInt, Default: "25565", Min: 1, Max: 65535, Description: "TCP port the server listens on."},
	{Name: "view-distance", Kind: KindInt, Default: "10", Min: 3, Max: 32, Description: "Chunk radius sent to clients."},
	{Name: "spawn-protection", Kind: KindInt, Default: "16", Min: 0, Max: math.MaxInt32, Description: "Radius around spawn only operators can build in."},
	{Name: "level-name", Kind: KindString, Default: "world", Required: true, Description: "Folder name of the world."},
	{Name: "level-seed", Kind: KindString, Default: "", Description: "Seed for new worlds; empty picks a random one."},
}

// Lookup returns the schema entry for name.
func Lookup(name string) (Setting, bool) {
	for _, s := range Schema {
		if s.Name == name {
			return s, true
		}
	}
	return Setting{}, false
}

// Normalize checks value against the setting and returns its canonical text.
func (s Setting) Normalize(value string) (string, error) {
	if utils.HasLineBreak(value) {
		return "", &ValidationError{Name: s.Name, Value: value, Reason: "line breaks are not allowed"}
	}

	switch s.Kind {
	case KindBool:
		b, ok := utils.ToBool(value)
		if !ok {
			return "", &ValidationError{Name: s.Name, Value: value, Reason: "expected true or false"}
		}
		return strconv.FormatBool(b), nil

	case KindInt:
		n, err := utils.ToInt(value)
		if err != nil {
			return "", &ValidationError{Name: s.Name, Value: value, Reason: "expected a whole number"}
		}
		if n < s.Min || n > s.Max {
			return "", &ValidationError{Name: s.Name, Value: value, Reason: fmt.Sprintf("must be between %d and %d", s.Min, s.Max)}
		}
		return strconv.Itoa(n), nil

	default:
		value = strings.TrimSpace(value)
		if len(s.Choices) > 0 {
			for _, c := range s.Choices {
				if strings.EqualFold(c, value) {
					return c, nil
				}
			}
			return "", &ValidationError{Name: s.Name, Value: value, Reason: "expected one of " + strings.Join(s.Choices, ", ")}
		}
		if s.Required && value == "" {
			return "", &ValidationError{Name: s.Name, Value: value, Reason: "must not be empty"}
		}
		return value, nil
	}
}

// Hint is the short type description shown next to a prompt.
func (s Setting) Hint() string {
	switch {
	case len(s.Choices) > 0:
		return strings.Join(s.Choices, "|")
	case s.Kind == KindInt:
		return fmt.Sprintf("int %d-%d", s.Min, s.Max)
	default:
		return s.Kind.String()
	}
}

// normalize validates value for name, falling back to free text for names outside the schema.
func normalize(name, value string) (string, error) {
	if s, ok := Lookup(name); ok {
		return s.Normalize(value)
	}
	if !validName(name) {
		return "", &ValidationError{Name: name, Value: value, Reason: "setting names cannot be empty or contain '=', ':', '#', '!' or blanks"}
	}
	return Setting{Name: name, Kind: KindString}.Normalize(value)
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, "=: \t\f\r\n#!")
}
