package locator

import (
	"path/filepath"

	"github.com/samber/lo"
)

// versionManager describes a per-user Node.js version manager layout:
// <home>/<root>/<version>/<suffix>
type versionManager struct {
	Name   string
	Root   []string
	Suffix []string
}

// versionManagers are scanned in this order
var versionManagers = []versionManager{
	{Name: "nvm", Root: []string{".nvm", "versions", "node"}, Suffix: []string{"bin", "node"}},
	{Name: "fnm", Root: []string{".local", "share", "fnm", "node-versions"}, Suffix: []string{"installation", "bin", "node"}},
	{Name: "asdf", Root: []string{".asdf", "installs", "nodejs"}, Suffix: []string{"bin", "node"}},
}

// candidateSet builds the static candidate lists for one OS family
type candidateSet struct {
	goos    string
	home    string
	getenv  func(string) string
	runtime string
	tool    string
}

// runtimeCandidates returns the well-known Node.js install locations in
// probe order
func (c candidateSet) runtimeCandidates() []string {
	switch c.goos {
	case "windows":
		exe := c.runtime + ".exe"
		return c.compact(
			c.envJoin("ProgramFiles", "nodejs", exe),
			c.envJoin("ProgramFiles(x86)", "nodejs", exe),
			c.envJoin("LOCALAPPDATA", "Volta", "bin", exe),
			c.envJoin("NVM_SYMLINK", exe),
			c.homeJoin("scoop", "apps", "nodejs", "current", exe),
		)
	case "darwin":
		return c.compact(
			"/opt/homebrew/bin/"+c.runtime,
			"/usr/local/bin/"+c.runtime,
			c.homeJoin(".volta", "bin", c.runtime),
			"/usr/bin/"+c.runtime,
		)
	default:
		return c.compact(
			"/usr/local/bin/"+c.runtime,
			"/usr/bin/"+c.runtime,
			c.homeJoin(".volta", "bin", c.runtime),
			"/home/linuxbrew/.linuxbrew/bin/"+c.runtime,
			"/snap/bin/"+c.runtime,
		)
	}
}

// toolCandidates returns the well-known ccusage install locations in probe
// order
func (c candidateSet) toolCandidates() []string {
	switch c.goos {
	case "windows":
		cmd := c.tool + ".cmd"
		return c.compact(
			c.envJoin("APPDATA", "npm", cmd),
			c.envJoin("LOCALAPPDATA", "pnpm", cmd),
			c.homeJoin(".yarn", "bin", cmd),
			c.envJoin("LOCALAPPDATA", "Volta", "bin", c.tool+".exe"),
		)
	case "darwin":
		return c.compact(
			"/opt/homebrew/bin/"+c.tool,
			"/usr/local/bin/"+c.tool,
			c.homeJoin(".yarn", "bin", c.tool),
			c.homeJoin("Library", "pnpm", c.tool),
			c.homeJoin(".local", "share", "pnpm", c.tool),
			c.homeJoin(".npm-global", "bin", c.tool),
		)
	default:
		return c.compact(
			"/usr/local/bin/"+c.tool,
			"/usr/bin/"+c.tool,
			c.homeJoin(".yarn", "bin", c.tool),
			c.homeJoin(".local", "share", "pnpm", c.tool),
			c.homeJoin(".npm-global", "bin", c.tool),
			"/home/linuxbrew/.linuxbrew/bin/"+c.tool,
		)
	}
}

// runtimeSuffix adapts a version manager suffix to the OS executable name
func (c candidateSet) runtimeSuffix(vm versionManager) []string {
	suffix := append([]string(nil), vm.Suffix...)
	last := len(suffix) - 1
	suffix[last] = c.runtime
	if c.goos == "windows" {
		suffix[last] += ".exe"
	}
	return suffix
}

func (c candidateSet) homeJoin(elem ...string) string {
	if c.home == "" {
		return ""
	}
	return filepath.Join(append([]string{c.home}, elem...)...)
}

func (c candidateSet) envJoin(key string, elem ...string) string {
	base := c.getenv(key)
	if base == "" {
		return ""
	}
	return filepath.Join(append([]string{base}, elem...)...)
}

// compact drops entries whose base directory is unknown on this host
func (c candidateSet) compact(paths ...string) []string {
	return lo.Compact(paths)
}
