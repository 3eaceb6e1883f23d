package models

// PathSource records how an executable path was chosen
type PathSource string

const (
	SourceEnv            PathSource = "env"
	SourceConfig         PathSource = "config"
	SourceCandidate      PathSource = "candidate"
	SourceVersionManager PathSource = "version_manager"
	SourceFallback       PathSource = "fallback"
)

// ResolvedPaths holds the runtime and tool executables used for the lifetime
// of the process
type ResolvedPaths struct {
	RuntimePath   string     `json:"runtime_path"`
	ToolPath      string     `json:"tool_path"`
	RuntimeSource PathSource `json:"runtime_source"`
	ToolSource    PathSource `json:"tool_source"`
}

// RuntimeIsFallback reports whether the runtime resolved to its bare name
func (p ResolvedPaths) RuntimeIsFallback() bool {
	return p.RuntimeSource == SourceFallback
}

// ToolIsFallback reports whether the tool resolved to its bare name
func (p ResolvedPaths) ToolIsFallback() bool {
	return p.ToolSource == SourceFallback
}
