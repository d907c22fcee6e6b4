// Package config loads render settings from YAML.
//
// Values are layered: defaults, then a view preset, then the config file,
// then command-line flags.
package config
