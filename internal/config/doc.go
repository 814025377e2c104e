// Package config loads benchnb settings.
//
// Settings come from, in increasing precedence: built-in defaults, an
// optional settings file, BENCHNB_* environment variables and command-line
// flags (applied by the cli package). The settings file may be YAML or
// JSON; JSON files may contain comments and trailing commas (JSONC), which
// are stripped with github.com/tidwall/jsonc before decoding.
package config
