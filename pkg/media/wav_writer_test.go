package media

import (
	"encoding/binary"
	"io"
	"os"
	"sync"
)

// WAVWriter writes 16 bit PCM data to a WAV file. Tests use it to build fixtures.
type WAVWriter struct {
	writer      io.WriteSeeker
	sampleRate  uint32
	numChannels uint32

	mu       sync.Mutex
	numBytes uint32
}

// NewWAVWriter creates a new WAVWriter and writes a header with placeholder sizes.
func NewWAVWriter(out io.WriteSeeker, sampleRate, numChannels uint32) (*WAVWriter, error) {
	w := &WAVWriter{
		writer:      out,
		sampleRate:  sampleRate,
		numChannels: numChannels,
	}

	if err := w.writeHeader(); err != nil {
		return nil, err
	}

	return w, nil
}

// CreateWAVFile creates path and returns a writer for it. Close finalizes the header and the file.
func CreateWAVFile(path string, sampleRate, numChannels uint32) (*WAVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWAVWriter(f, sampleRate, numChannels)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// WriteSample writes PCM samples.
func (w *WAVWriter) WriteSample(sample []int16) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := binary.Write(w.writer, binary.LittleEndian, sample)
	if err != nil {
		return err
	}
	w.numBytes += uint32(len(sample) * 2) // 2 bytes per int16 sample
	return nil
}

// Close finalizes the WAV file by updating the header with the correct sizes.
func (w *WAVWriter) Close() error {
	if err := w.updateHeader(); err != nil {
		return err
	}
	if f, ok := w.writer.(*os.File); ok {
		return f.Close()
	}
	return nil
}

func (w *WAVWriter) writeHeader() error {
	hdr := make([]byte, 44)
	copy(hdr[0:4], "RIFF")
	// 4:8 file size, set on Close
	copy(hdr[8:12], "WAVE")

	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16) // PCM
	binary.LittleEndian.PutUint16(hdr[20:22], 1)
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(w.numChannels))
	binary.LittleEndian.PutUint32(hdr[24:28], w.sampleRate)
	binary.LittleEndian.PutUint32(hdr[28:32], w.sampleRate*w.numChannels*2)
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(w.numChannels*2))
	binary.LittleEndian.PutUint16(hdr[34:36], 16)

	copy(hdr[36:40], "data")
	// 40:44 data size, set on Close

	_, err := w.writer.Write(hdr)
	return err
}

// updateHeader seeks back and writes the final RIFF and data sizes.
func (w *WAVWriter) updateHeader() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.writer.Seek(4, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(w.writer, binary.LittleEndian, w.numBytes+36); err != nil {
		return err
	}

	if _, err := w.writer.Seek(40, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(w.writer, binary.LittleEndian, w.numBytes); err != nil {
		return err
	}

	return nil
}
