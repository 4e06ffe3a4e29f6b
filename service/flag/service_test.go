package flag

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlagState(t *testing.T, args []string) func() {
	t.Helper()
	oldArgs := os.Args
	os.Args = append([]string{"yolo-workbench"}, args...)
	return func() {
		os.Args = oldArgs
	}
}

func TestGetParsedFlagsRootOptions(t *testing.T) {
	cleanup := resetFlagState(t, []string{
		"--verbose",
		"--output", "JSON",
		"--config-path", "/tmp/yolo-workbench.yaml",
		"-v",
	})
	defer cleanup()

	flags, err := NewService().GetParsedFlags()
	require.NoError(t, err)

	assert.True(t, flags.Version)
	assert.True(t, flags.Verbose)
	assert.Equal(t, "json", flags.Output)
	assert.Equal(t, "/tmp/yolo-workbench.yaml", flags.ConfigPath)
	assert.Empty(t, flags.Command)
	assert.Empty(t, flags.Args)
}

func TestGetParsedFlagsDefaults(t *testing.T) {
	cleanup := resetFlagState(t, nil)
	defer cleanup()

	flags, err := NewService().GetParsedFlags()
	require.NoError(t, err)

	assert.Equal(t, "table", flags.Output)
	assert.False(t, flags.Version)
	assert.False(t, flags.Verbose)
	assert.Empty(t, flags.ConfigPath)
}

func TestGetParsedFlagsStopsAtCommand(t *testing.T) {
	flags, err := NewServiceWithArgs([]string{
		"-o", "json", "install", "--dry-run", "--python", "python3.11",
	}).GetParsedFlags()
	require.NoError(t, err)

	assert.Equal(t, "json", flags.Output)
	assert.Equal(t, "install", flags.Command)
	assert.Equal(t, []string{"--dry-run", "--python", "python3.11"}, flags.Args)
}

func TestGetParsedFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"--profile", "prod"}},
		{name: "bad format", args: []string{"--output", "html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServiceWithArgs(tt.args).GetParsedFlags()
			assert.Error(t, err)
		})
	}
}
