package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestWav(t *testing.T, path string, samples int) {
	t.Helper()
	w, err := CreateWAVFile(path, 16000, 1)
	require.NoError(t, err)
	require.NoError(t, w.WriteSample(make([]int16, samples)))
	require.NoError(t, w.Close())
}

func TestResolveSource_Microphone(t *testing.T) {
	src, err := ResolveSource("")
	require.NoError(t, err)
	assert.True(t, src.IsMicrophone())
	assert.True(t, strings.HasPrefix(src.Name, config.MicrophoneSessionPrefix))
	assert.Len(t, src.Name, len(config.MicrophoneSessionPrefix)+36)

	other, err := ResolveSource("  ")
	require.NoError(t, err)
	assert.NotEqual(t, src.Name, other.Name)
}

func TestResolveSource_File(t *testing.T) {
	dir := t.TempDir()

	upper := filepath.Join(dir, "FILE.WAV")
	writeTestWav(t, upper, 1600)
	src, err := ResolveSource(upper)
	require.NoError(t, err)
	assert.Equal(t, SourceFile, src.Kind)
	assert.Equal(t, upper, src.Name)
	assert.Equal(t, upper, src.Path)

	lower := filepath.Join(dir, "call.wav")
	writeTestWav(t, lower, 1600)
	_, err = ResolveSource(lower)
	assert.NoError(t, err)
}

func TestResolveSource_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ResolveSource(filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = ResolveSource(dir)
	assert.ErrorIs(t, err, ErrFileNotFound)

	mp3 := filepath.Join(dir, "call.mp3")
	writeTestWav(t, mp3, 10)
	_, err = ResolveSource(mp3)
	assert.ErrorIs(t, err, ErrNotWav)

	fake := filepath.Join(dir, "notes.wav")
	require.NoError(t, os.WriteFile(fake, []byte("just some text, not audio"), 0644))
	_, err = ResolveSource(fake)
	assert.ErrorIs(t, err, ErrNotWav)
	assert.Equal(t, config.OnlyWavSupportedMsg, UserMessage(err))
}

func TestUserMessage(t *testing.T) {
	_, err := ResolveSource(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Equal(t, config.FileNotFoundMsg, UserMessage(err))

	assert.Equal(t, "permission denied", UserMessage(os.ErrPermission))
}

func TestWAVWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	// two seconds of 16kHz mono
	writeTestWav(t, path, 32000)

	info, err := ReadWAVInfoFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), info.AudioFormat)
	assert.Equal(t, uint16(1), info.NumChannels)
	assert.Equal(t, uint32(16000), info.SampleRate)
	assert.Equal(t, uint16(16), info.BitsPerSample)
	assert.Equal(t, uint32(64000), info.DataSize)
	assert.Equal(t, 2*time.Second, info.Duration())
}

func TestReadWAVInfo_Invalid(t *testing.T) {
	_, err := ReadWAVInfo(strings.NewReader("RIFF....AVI "))
	assert.ErrorIs(t, err, errInvalidWav)

	_, err = ReadWAVInfo(strings.NewReader("short"))
	assert.ErrorIs(t, err, errInvalidWav)
}
