package runner

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// commonBinDirs are prepended to PATH so ccusage can find node when launched
// from a GUI session whose PATH is minimal
func commonBinDirs(goos string) []string {
	switch goos {
	case "windows":
		return nil
	case "darwin":
		return []string{"/opt/homebrew/bin", "/usr/local/bin", "/usr/bin", "/bin"}
	default:
		return []string{"/usr/local/bin", "/usr/bin", "/bin"}
	}
}

// BuildEnv returns base with PATH augmented and the runtime override variable
// set to runtimePath. The runtime directory comes first on PATH, followed by
// extraDirs, the common install directories and the inherited PATH.
func BuildEnv(base []string, runtimePath, runtimeEnv string, extraDirs []string, goos string) []string {
	pathKey := "PATH"
	inherited := ""
	env := make([]string, 0, len(base)+2)

	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			env = append(env, kv)
			continue
		}
		switch {
		case envKeyEqual(key, "PATH", goos):
			// Windows spells it "Path"; keep the original key
			pathKey = key
			inherited = value
		case envKeyEqual(key, runtimeEnv, goos):
			// replaced below
		default:
			env = append(env, kv)
		}
	}

	dirs := make([]string, 0, len(extraDirs)+6)
	if dir := runtimeDir(runtimePath); dir != "" {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, extraDirs...)
	dirs = append(dirs, commonBinDirs(goos)...)
	dirs = append(dirs, filepath.SplitList(inherited)...)
	dirs = lo.Uniq(lo.Compact(dirs))

	env = append(env, pathKey+"="+strings.Join(dirs, string(os.PathListSeparator)))
	if runtimeEnv != "" {
		env = append(env, runtimeEnv+"="+runtimePath)
	}
	return env
}

// runtimeDir returns the directory containing the runtime, or "" when the
// runtime is a bare command name
func runtimeDir(runtimePath string) string {
	if runtimePath == "" || !strings.ContainsAny(runtimePath, `/\`) {
		return ""
	}
	return filepath.Dir(runtimePath)
}

func envKeyEqual(a, b, goos string) bool {
	if b == "" {
		return false
	}
	if goos == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// envValue returns the value of key in env
func envValue(env []string, key, goos string) string {
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && envKeyEqual(k, key, goos) {
			return v
		}
	}
	return ""
}

// lookPathIn resolves a bare command name against pathList, the child's
// augmented PATH. exec.Command only consults the parent's PATH. Names that
// already contain a separator, or that are not found, are returned as is.
func lookPathIn(name, pathList string) string {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return name
	}
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			continue
		}
		if found, err := exec.LookPath(filepath.Join(dir, name)); err == nil {
			return found
		}
	}
	return name
}
