package console

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForQuit(t *testing.T) {
	err := WaitForQuit(context.Background(), strings.NewReader("hello\nQ\n"))
	assert.NoError(t, err)

	err = WaitForQuit(context.Background(), strings.NewReader("nothing here\n"))
	assert.ErrorIs(t, err, io.EOF)
}

func TestWaitForQuit_ContextDone(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := WaitForQuit(ctx, r)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPressEnterToExit_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	PressEnterToExit(f, &out, "Press enter to exit...")
	assert.Equal(t, "Press enter to exit...\n", out.String())
	assert.False(t, IsTerminal(f))
}
