// Package locator finds the Node.js runtime and the ccusage executable on the
// host. Resolution never fails: when nothing is found the bare program name is
// returned so the operating system's own PATH lookup is the last resort.
package locator

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/penwyp/ClawMeter/logging"
	"github.com/penwyp/ClawMeter/models"
	"github.com/spf13/afero"
)

// Resolver resolves the executables used to query usage
type Resolver interface {
	Resolve() models.ResolvedPaths
}

// Options configures a Locator. Zero values fall back to the host defaults.
type Options struct {
	RuntimeName string
	ToolName    string

	// Override variables, checked before any candidate
	RuntimeEnv string
	ToolEnv    string

	// Extra candidates probed ahead of the built-in lists
	ExtraRuntimePaths []string
	ExtraToolPaths    []string

	Fs        afero.Fs
	LookupEnv func(string) (string, bool)
	GOOS      string
	HomeDir   string
}

// Locator probes the filesystem for the runtime and tool executables
type Locator struct {
	opts Options
	fs   afero.Fs
}

// New creates a Locator, filling unset options from the host environment
func New(opts Options) *Locator {
	if opts.RuntimeName == "" {
		opts.RuntimeName = models.DefaultRuntimeName
	}
	if opts.ToolName == "" {
		opts.ToolName = models.DefaultToolName
	}
	if opts.RuntimeEnv == "" {
		opts.RuntimeEnv = models.DefaultRuntimeEnv
	}
	if opts.ToolEnv == "" {
		opts.ToolEnv = models.DefaultToolEnv
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.HomeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			opts.HomeDir = home
		}
	}

	return &Locator{opts: opts, fs: opts.Fs}
}

// Resolve locates both executables. Each one is resolved independently.
func (l *Locator) Resolve() models.ResolvedPaths {
	set := l.candidateSet()

	runtimePath, runtimeSource := l.find("Node.js", l.opts.RuntimeEnv, l.opts.RuntimeName,
		l.opts.ExtraRuntimePaths, set.runtimeCandidates(), l.versionManagerCandidates(set))

	toolPath, toolSource := l.find("ccusage", l.opts.ToolEnv, l.opts.ToolName,
		l.opts.ExtraToolPaths, set.toolCandidates(), nil)

	logging.LogInfof("[locator] selected paths - Node.js: %s (%s), ccusage: %s (%s)",
		runtimePath, runtimeSource, toolPath, toolSource)

	return models.ResolvedPaths{
		RuntimePath:   runtimePath,
		ToolPath:      toolPath,
		RuntimeSource: runtimeSource,
		ToolSource:    toolSource,
	}
}

// RuntimeCandidates returns the full ordered candidate list for the runtime,
// static locations first, then version manager installs
func (l *Locator) RuntimeCandidates() []string {
	set := l.candidateSet()
	return append(set.runtimeCandidates(), l.versionManagerCandidates(set)...)
}

// ToolCandidates returns the ordered candidate list for ccusage
func (l *Locator) ToolCandidates() []string {
	return l.candidateSet().toolCandidates()
}

// find applies the override, then extra paths, then the static candidates
// followed by the version manager candidates, then the bare name
func (l *Locator) find(label, envKey, bareName string, extra, static, dynamic []string) (string, models.PathSource) {
	if value, ok := l.opts.LookupEnv(envKey); ok && value != "" {
		logging.LogInfof("[locator] using %s environment variable for %s: %s", envKey, label, value)
		return value, models.SourceEnv
	}

	for _, path := range extra {
		if l.check(label, path) {
			return path, models.SourceConfig
		}
	}

	logging.LogDebugf("[locator] searching for %s in %d candidates", label, len(static)+len(dynamic))
	for _, path := range static {
		if l.check(label, path) {
			return path, models.SourceCandidate
		}
	}
	for _, path := range dynamic {
		if l.check(label, path) {
			return path, models.SourceVersionManager
		}
	}

	logging.LogWarnf("[locator] no %s found in candidates, falling back to system PATH (%s)", label, bareName)
	return bareName, models.SourceFallback
}

// check reports whether path exists. Execute permission is not verified.
func (l *Locator) check(label, path string) bool {
	exists, err := afero.Exists(l.fs, path)
	if err != nil {
		exists = false
	}
	logging.LogDebugf("[locator] checking %s path: %s -> %t", label, path, exists)
	return exists
}

// versionManagerCandidates lists installed versions for each version manager
// in manager order, keeping the directory listing order within a manager
func (l *Locator) versionManagerCandidates(set candidateSet) []string {
	if l.opts.HomeDir == "" {
		return nil
	}

	var candidates []string
	for _, vm := range versionManagers {
		root := filepath.Join(append([]string{l.opts.HomeDir}, vm.Root...)...)
		versions, err := l.listDir(root)
		if err != nil {
			continue
		}
		suffix := set.runtimeSuffix(vm)
		for _, version := range versions {
			candidates = append(candidates, filepath.Join(append([]string{root, version}, suffix...)...))
		}
		logging.LogDebugf("[locator] %s: found %d installed versions under %s", vm.Name, len(versions), root)
	}
	return candidates
}

// listDir returns directory entry names without sorting them
func (l *Locator) listDir(dir string) ([]string, error) {
	f, err := l.fs.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

func (l *Locator) candidateSet() candidateSet {
	return candidateSet{
		goos: l.opts.GOOS,
		home: l.opts.HomeDir,
		getenv: func(key string) string {
			v, _ := l.opts.LookupEnv(key)
			return v
		},
		runtime: l.opts.RuntimeName,
		tool:    l.opts.ToolName,
	}
}
