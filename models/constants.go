package models

import "time"

// Placeholder model names used when ccusage does not report one
const (
	UnknownModel = "Unknown"
	DefaultModel = "Claude"
)

// Default executable names, used verbatim when no candidate path exists
const (
	DefaultRuntimeName = "node"
	DefaultToolName    = "ccusage"
)

// Default override variables
const (
	DefaultRuntimeEnv = "NODE_PATH"
	DefaultToolEnv    = "CCUSAGE_PATH"
)

// ccusage subcommands
const (
	CommandBlocks = "blocks"
	CommandDaily  = "daily"
	FlagJSON      = "--json"
)

// DateLayout is the ISO calendar date layout used by ccusage daily reports
const DateLayout = "2006-01-02"

// Invocation limits
const (
	DefaultCommandTimeout = 30 * time.Second
	MinCommandTimeout     = 1 * time.Second
	MaxCommandTimeout     = 10 * time.Minute
)

// Refresh limits for the watch monitor
const (
	DefaultRefreshInterval = 30 * time.Second
	MinRefreshInterval     = 1 * time.Second
	MaxRefreshInterval     = time.Hour
)
