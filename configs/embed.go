// Package configs embeds the configuration templates written by
// `lexidx config init`.
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults (config.NewConfig)
//  2. User config (~/.config/lexidx/config.yaml)
//  3. Project config (.lexidx.yaml) or --config
//  4. Environment variables (LEXIDX_*)
package configs

import _ "embed"

// UserConfigTemplate is written to ~/.config/lexidx/config.yaml by
// `lexidx config init --user`. It holds machine-wide settings such as
// logging.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is written to .lexidx.yaml by `lexidx config init`.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
