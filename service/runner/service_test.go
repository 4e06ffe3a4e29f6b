//go:build !windows

package runner

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesOutputAndExitCode(t *testing.T) {
	r := NewServiceWithWriters(&bytes.Buffer{}, &bytes.Buffer{}, false)

	res, err := r.Run(context.Background(), "sh", "-c", "echo hello; echo oops 1>&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Output, "hello")
	assert.Contains(t, res.Output, "oops")
}

func TestRunMissingBinaryIsStartError(t *testing.T) {
	r := NewServiceWithWriters(&bytes.Buffer{}, &bytes.Buffer{}, false)

	_, err := r.Run(context.Background(), "definitely-not-a-real-binary-xyz")
	assert.Error(t, err)

	_, err = r.LookPath("definitely-not-a-real-binary-xyz")
	assert.Error(t, err)
}

func TestStreamEchoesCommand(t *testing.T) {
	var out bytes.Buffer
	r := NewServiceWithWriters(&out, &bytes.Buffer{}, true)

	code, err := r.Stream(context.Background(), "sh", "-c", "echo streamed")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "> sh -c echo streamed")
	assert.Contains(t, out.String(), "streamed\n")
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "b", LastLine("a\nb\n\n"))
	assert.Equal(t, "only", LastLine("only"))
	assert.Equal(t, "", LastLine("\n \n"))
	assert.Equal(t, "x y", LastLine("warn\r\nx y\r\n"))
}
