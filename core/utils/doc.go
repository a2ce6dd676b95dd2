// Package utils provides common utility functions for msc.
// It includes helpers for converting the textual values of settings and command-line
// arguments that don't fit into domain-specific packages.
package utils
