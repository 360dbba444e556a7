package cmd

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aquacheck/internal/measurement"
)

func TestFieldFlag(t *testing.T) {
	assert.Equal(t, "ph", fieldFlag(measurement.PH))
	assert.Equal(t, "organic-carbon", fieldFlag(measurement.OrganicCarbon))

	for _, f := range measurement.Fields() {
		require.NotNil(t, predictCmd.Flags().Lookup(fieldFlag(f)), f.String())
	}
}

func TestFormatCounts(t *testing.T) {
	got := formatCounts(map[string]int{"safe": 3, "unsafe": 1, "out-of-range": 2})
	assert.Equal(t, "Assessments: 6 (3 safe, 1 unsafe, 2 out-of-range, 0 input-error)", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "claude", truncate("claude-sonnet", 6))
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"predict", "chat", "train", "ranges", "history", "llm", "serve", "update", "version"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
}

func TestVersionCommand(t *testing.T) {
	old := version
	version = "v1.4.0"
	t.Cleanup(func() { version = old })

	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	require.NoError(t, versionCmd.Flags().Set("short", "true"))
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "v1.4.0\n", out.String())

	out.Reset()
	require.NoError(t, versionCmd.Flags().Set("short", "false"))
	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(out.String(), "aquacheck v1.4.0 (commit "), out.String())
	assert.Contains(t, out.String(), runtime.GOOS+"/"+runtime.GOARCH)
}

func TestCurrentVersion_DevFallback(t *testing.T) {
	old := version
	version = "(devel)"
	t.Cleanup(func() { version = old })

	// Test binaries carry no release version.
	assert.Equal(t, "(devel)", currentVersion())
}
