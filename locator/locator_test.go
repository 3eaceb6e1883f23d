package locator

import (
	"path/filepath"
	"testing"

	"github.com/penwyp/ClawMeter/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHome = "/home/tester"

func envFrom(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func touch(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte("#!/bin/sh\n"), 0755))
}

func newTestLocator(fs afero.Fs, goos string, env map[string]string) *Locator {
	return New(Options{
		Fs:        fs,
		GOOS:      goos,
		HomeDir:   testHome,
		LookupEnv: envFrom(env),
	})
}

func TestResolve_EnvOverrideIsVerbatim(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs, "/usr/local/bin/node")
	touch(t, fs, "/usr/local/bin/ccusage")

	loc := newTestLocator(fs, "linux", map[string]string{
		"NODE_PATH":    "/does/not/exist/node",
		"CCUSAGE_PATH": "/custom/ccusage",
	})

	paths := loc.Resolve()
	assert.Equal(t, "/does/not/exist/node", paths.RuntimePath)
	assert.Equal(t, "/custom/ccusage", paths.ToolPath)
	assert.Equal(t, models.SourceEnv, paths.RuntimeSource)
	assert.Equal(t, models.SourceEnv, paths.ToolSource)
}

func TestResolve_EmptyOverrideIsIgnored(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs, "/usr/bin/node")

	loc := newTestLocator(fs, "linux", map[string]string{"NODE_PATH": ""})

	paths := loc.Resolve()
	assert.Equal(t, "/usr/bin/node", paths.RuntimePath)
	assert.Equal(t, models.SourceCandidate, paths.RuntimeSource)
}

func TestResolve_StaticCandidateOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs, "/usr/bin/node")
	touch(t, fs, "/usr/local/bin/node")
	touch(t, fs, filepath.Join(testHome, ".yarn", "bin", "ccusage"))
	touch(t, fs, filepath.Join(testHome, ".local", "share", "pnpm", "ccusage"))

	paths := newTestLocator(fs, "linux", nil).Resolve()

	assert.Equal(t, "/usr/local/bin/node", paths.RuntimePath)
	assert.Equal(t, filepath.Join(testHome, ".yarn", "bin", "ccusage"), paths.ToolPath)
	assert.Equal(t, models.SourceCandidate, paths.ToolSource)
}

func TestResolve_StaticCandidatesBeatVersionManagers(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs, filepath.Join(testHome, ".nvm", "versions", "node", "v20.11.0", "bin", "node"))
	touch(t, fs, "/usr/bin/node")

	paths := newTestLocator(fs, "linux", nil).Resolve()
	assert.Equal(t, "/usr/bin/node", paths.RuntimePath)
	assert.Equal(t, models.SourceCandidate, paths.RuntimeSource)
}

func TestResolve_VersionManagerFallback(t *testing.T) {
	fs := afero.NewMemMapFs()
	nvmNode := filepath.Join(testHome, ".nvm", "versions", "node", "v20.11.0", "bin", "node")
	touch(t, fs, nvmNode)

	paths := newTestLocator(fs, "linux", nil).Resolve()
	assert.Equal(t, nvmNode, paths.RuntimePath)
	assert.Equal(t, models.SourceVersionManager, paths.RuntimeSource)
}

func TestResolve_VersionManagerOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	fnmNode := filepath.Join(testHome, ".local", "share", "fnm", "node-versions", "v18.19.0", "installation", "bin", "node")
	asdfNode := filepath.Join(testHome, ".asdf", "installs", "nodejs", "21.1.0", "bin", "node")
	touch(t, fs, asdfNode)
	touch(t, fs, fnmNode)

	paths := newTestLocator(fs, "linux", nil).Resolve()
	assert.Equal(t, fnmNode, paths.RuntimePath)
}

func TestResolve_VersionDirWithoutBinaryIsSkipped(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join(testHome, ".nvm", "versions", "node", "v16.0.0"), 0755))
	asdfNode := filepath.Join(testHome, ".asdf", "installs", "nodejs", "20.0.0", "bin", "node")
	touch(t, fs, asdfNode)

	paths := newTestLocator(fs, "linux", nil).Resolve()
	assert.Equal(t, asdfNode, paths.RuntimePath)
}

func TestResolve_FallsBackToBareNames(t *testing.T) {
	paths := newTestLocator(afero.NewMemMapFs(), "linux", nil).Resolve()

	assert.Equal(t, "node", paths.RuntimePath)
	assert.Equal(t, "ccusage", paths.ToolPath)
	assert.True(t, paths.RuntimeIsFallback())
	assert.True(t, paths.ToolIsFallback())
}

func TestResolve_ExtraPathsCheckedFirst(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs, "/usr/local/bin/ccusage")
	touch(t, fs, "/opt/tools/ccusage")

	loc := New(Options{
		Fs:             fs,
		GOOS:           "linux",
		HomeDir:        testHome,
		LookupEnv:      envFrom(nil),
		ExtraToolPaths: []string{"/missing/ccusage", "/opt/tools/ccusage"},
	})

	paths := loc.Resolve()
	assert.Equal(t, "/opt/tools/ccusage", paths.ToolPath)
	assert.Equal(t, models.SourceConfig, paths.ToolSource)
}

func TestRuntimeCandidates_StaticThenDynamic(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join(testHome, ".nvm", "versions", "node", "v20.0.0"), 0755))
	require.NoError(t, fs.MkdirAll(filepath.Join(testHome, ".asdf", "installs", "nodejs", "18.0.0"), 0755))

	loc := newTestLocator(fs, "darwin", nil)
	candidates := loc.RuntimeCandidates()

	require.Len(t, candidates, 6)
	assert.Equal(t, "/opt/homebrew/bin/node", candidates[0])
	assert.Equal(t, "/usr/local/bin/node", candidates[1])
	assert.Equal(t, filepath.Join(testHome, ".volta", "bin", "node"), candidates[2])
	assert.Equal(t, "/usr/bin/node", candidates[3])
	assert.Equal(t, filepath.Join(testHome, ".nvm", "versions", "node", "v20.0.0", "bin", "node"), candidates[4])
	assert.Equal(t, filepath.Join(testHome, ".asdf", "installs", "nodejs", "18.0.0", "bin", "node"), candidates[5])
}

func TestToolCandidates_Darwin(t *testing.T) {
	loc := newTestLocator(afero.NewMemMapFs(), "darwin", nil)
	candidates := loc.ToolCandidates()

	require.NotEmpty(t, candidates)
	assert.Equal(t, "/opt/homebrew/bin/ccusage", candidates[0])
	assert.Contains(t, candidates, filepath.Join(testHome, ".yarn", "bin", "ccusage"))
}

func TestCandidates_Windows(t *testing.T) {
	loc := newTestLocator(afero.NewMemMapFs(), "windows", map[string]string{
		"ProgramFiles": `C:\Program Files`,
		"APPDATA":      `C:\Users\tester\AppData\Roaming`,
	})

	runtimes := loc.RuntimeCandidates()
	require.NotEmpty(t, runtimes)
	assert.Equal(t, filepath.Join(`C:\Program Files`, "nodejs", "node.exe"), runtimes[0])

	tools := loc.ToolCandidates()
	require.NotEmpty(t, tools)
	assert.Equal(t, filepath.Join(`C:\Users\tester\AppData\Roaming`, "npm", "ccusage.cmd"), tools[0])
}

func TestCandidates_NoHomeSkipsUserLocations(t *testing.T) {
	loc := &Locator{fs: afero.NewMemMapFs(), opts: Options{
		RuntimeName: "node",
		ToolName:    "ccusage",
		GOOS:        "linux",
		LookupEnv:   envFrom(nil),
	}}

	for _, c := range loc.RuntimeCandidates() {
		assert.True(t, filepath.IsAbs(c), c)
		assert.NotContains(t, c, ".volta")
	}
}

type countingResolver struct {
	calls int
}

func (c *countingResolver) Resolve() models.ResolvedPaths {
	c.calls++
	return models.ResolvedPaths{RuntimePath: "node", ToolPath: "ccusage"}
}

func TestCached_ResolvesOnce(t *testing.T) {
	inner := &countingResolver{}
	cached := NewCached(inner)

	first := cached.Resolve()
	second := cached.Resolve()

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestStatic(t *testing.T) {
	s := Static{RuntimePath: "/n", ToolPath: "/c"}
	assert.Equal(t, "/c", s.Resolve().ToolPath)
}
