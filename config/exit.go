package config

import (
	"fmt"
	"os"
)

// Program prefixes fatal startup messages.
const Program = "osu-sbgen"

// Exitf reports a fatal startup error and exits with status 1. main uses it
// for failures that happen before the logger is configured, so the message
// goes straight to stderr.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, Program+": "+format+"\n", args...)
	os.Exit(1)
}
