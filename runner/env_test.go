package runner

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(env []string, key string) (string, bool) {
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

func TestBuildEnv_PrependsRuntimeDir(t *testing.T) {
	sep := string(os.PathListSeparator)
	env := BuildEnv([]string{"HOME=/home/u", "PATH=/usr/bin" + sep + "/bin"},
		"/home/u/.nvm/versions/node/v20.0.0/bin/node", "NODE_PATH", nil, "linux")

	path, ok := lookup(env, "PATH")
	require.True(t, ok)
	parts := strings.Split(path, sep)
	assert.Equal(t, "/home/u/.nvm/versions/node/v20.0.0/bin", parts[0])
	assert.Equal(t, []string{"/usr/local/bin", "/usr/bin", "/bin"}, parts[1:])

	nodePath, ok := lookup(env, "NODE_PATH")
	require.True(t, ok)
	assert.Equal(t, "/home/u/.nvm/versions/node/v20.0.0/bin/node", nodePath)

	home, _ := lookup(env, "HOME")
	assert.Equal(t, "/home/u", home)
}

func TestBuildEnv_ReplacesExistingOverride(t *testing.T) {
	env := BuildEnv([]string{"NODE_PATH=/old/modules", "PATH=/x"}, "/usr/local/bin/node", "NODE_PATH", nil, "darwin")

	count := 0
	for _, kv := range env {
		if strings.HasPrefix(kv, "NODE_PATH=") {
			count++
		}
	}
	assert.Equal(t, 1, count)

	v, _ := lookup(env, "NODE_PATH")
	assert.Equal(t, "/usr/local/bin/node", v)

	path, _ := lookup(env, "PATH")
	assert.True(t, strings.HasPrefix(path, "/usr/local/bin"+string(os.PathListSeparator)+"/opt/homebrew/bin"), path)
}

func TestBuildEnv_BareRuntimeAddsNoDir(t *testing.T) {
	env := BuildEnv(nil, "node", "NODE_PATH", []string{"/opt/extra"}, "linux")

	path, ok := lookup(env, "PATH")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(path, "/opt/extra"), path)
	assert.NotContains(t, strings.Split(path, string(os.PathListSeparator)), ".")
}

func TestBuildEnv_WindowsPathKey(t *testing.T) {
	env := BuildEnv([]string{`Path=C:\Windows`}, `C:\Program Files\nodejs\node.exe`, "NODE_PATH", nil, "windows")

	_, upper := lookup(env, "PATH")
	assert.False(t, upper)
	v, ok := lookup(env, "Path")
	require.True(t, ok)
	assert.Contains(t, v, `C:\Windows`)
}

func TestEnvValue(t *testing.T) {
	env := []string{"A=1", "Path=x"}
	assert.Equal(t, "1", envValue(env, "A", "linux"))
	assert.Equal(t, "", envValue(env, "PATH", "linux"))
	assert.Equal(t, "x", envValue(env, "PATH", "windows"))
}

func TestLookPathIn_KeepsPaths(t *testing.T) {
	assert.Equal(t, "/abs/ccusage", lookPathIn("/abs/ccusage", "/usr/bin"))
	assert.Equal(t, "nothing-here", lookPathIn("nothing-here", ""))
}
