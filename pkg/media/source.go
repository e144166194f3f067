package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/mynaparrot/voice-insights/pkg/config"
)

var (
	ErrFileNotFound = errors.New("audio file not found")
	ErrNotWav       = errors.New("only .wav files are supported")
)

type SourceKind int

const (
	SourceMicrophone SourceKind = iota
	SourceFile
)

func (k SourceKind) String() string {
	if k == SourceFile {
		return "file"
	}
	return "microphone"
}

// Source is the audio input of one recognition session.
type Source struct {
	Kind SourceKind
	Path string
	// Name is stored as the session name
	Name string
}

func (s Source) IsMicrophone() bool {
	return s.Kind == SourceMicrophone
}

// ResolveSource picks the microphone when path is empty, otherwise the path
// has to point to an existing wav file.
func ResolveSource(path string) (Source, error) {
	if strings.TrimSpace(path) == "" {
		return Source{
			Kind: SourceMicrophone,
			Name: config.MicrophoneSessionPrefix + uuid.NewString(),
		}, nil
	}

	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return Source{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return Source{}, fmt.Errorf("%w: %s", ErrNotWav, path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return Source{}, err
	}
	if !mtype.Is("audio/wav") {
		return Source{}, fmt.Errorf("%w: %s has content type %s", ErrNotWav, path, mtype.String())
	}

	return Source{
		Kind: SourceFile,
		Path: path,
		Name: path,
	}, nil
}

// UserMessage turns a ResolveSource error into the text shown on the console.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrFileNotFound):
		return config.FileNotFoundMsg
	case errors.Is(err, ErrNotWav):
		return config.OnlyWavSupportedMsg
	default:
		return err.Error()
	}
}
