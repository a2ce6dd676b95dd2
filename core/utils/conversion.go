package utils

import (
	"strconv"
	"strings"
)

// ToBool converts the boolean spellings accepted at prompts and on the command line.
// It handles true/false, yes/no, on/off and 1/0 in any letter case.
// The second return value is false when s is none of those.
func ToBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	default:
		return false, false
	}
}

// ToInt converts a base-10 integer, ignoring surrounding blanks.
// Unlike strconv.ParseInt with base 0, prefixes such as 0x are rejected.
func ToInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// SplitPair splits a "key=value" argument on its first '='.
// The key is trimmed; the value is kept as typed so it may contain '=' or ','.
func SplitPair(s string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", false
	}
	return key, value, true
}

// HasLineBreak reports whether s contains a carriage return or a newline.
func HasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}
