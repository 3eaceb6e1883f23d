package cmd

import (
	"bytes"
	"testing"

	"github.com/penwyp/ClawMeter/locator"
	"github.com/penwyp/ClawMeter/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVersionInfo_DetectsExecutables(t *testing.T) {
	info := buildVersionInfo(locator.Static{
		RuntimePath: "/usr/local/bin/node", RuntimeSource: models.SourceCandidate,
		ToolPath: "/opt/ccusage", ToolSource: models.SourceEnv,
	})

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, "/usr/local/bin/node", info.NodePath)
	assert.Equal(t, models.SourceEnv, info.CcusageSource)

	var buf bytes.Buffer
	require.NoError(t, writeVersion(&buf, info, "json"))
	out := buf.String()
	assert.Contains(t, out, `"node_path": "/usr/local/bin/node"`)
	assert.Contains(t, out, `"ccusage_path": "/opt/ccusage"`)
	assert.Contains(t, out, `"ccusage_source": "env"`)
}

func TestWriteVersion_Default(t *testing.T) {
	info := buildVersionInfo(locator.Static{
		RuntimePath: "/usr/local/bin/node", RuntimeSource: models.SourceCandidate,
		ToolPath: "ccusage", ToolSource: models.SourceFallback,
	})

	var buf bytes.Buffer
	require.NoError(t, writeVersion(&buf, info, "default"))
	out := buf.String()
	assert.Contains(t, out, "Node.js:     /usr/local/bin/node (candidate)")
	assert.Contains(t, out, "ccusage:     ccusage (fallback)")
	assert.Contains(t, out, "relying on PATH")
}

func TestWriteVersion_ShortSkipsDetection(t *testing.T) {
	info := buildVersionInfo(nil)
	assert.Empty(t, info.NodePath)

	var buf bytes.Buffer
	require.NoError(t, writeVersion(&buf, info, "short"))
	assert.Equal(t, Version+"\n", buf.String())
}
