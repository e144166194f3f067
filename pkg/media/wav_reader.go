package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var errInvalidWav = errors.New("invalid wav header")

// WAVInfo describes the PCM stream of a wav file.
type WAVInfo struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	BitsPerSample uint16
	DataSize      uint32
}

// Duration is the playback length of the data chunk.
func (i WAVInfo) Duration() time.Duration {
	byteRate := uint64(i.SampleRate) * uint64(i.NumChannels) * uint64(i.BitsPerSample) / 8
	if byteRate == 0 {
		return 0
	}
	return time.Duration(uint64(i.DataSize) * uint64(time.Second) / byteRate)
}

// ReadWAVInfoFile reads the header of the wav file at path.
func ReadWAVInfoFile(path string) (*WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadWAVInfo(f)
}

// ReadWAVInfo walks the RIFF chunks until it has seen both "fmt " and "data".
func ReadWAVInfo(r io.Reader) (*WAVInfo, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidWav, err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, errInvalidWav
	}

	info := new(WAVInfo)
	var hasFmt bool
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidWav, err)
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, errInvalidWav
			}
			var f [16]byte
			if _, err := io.ReadFull(r, f[:]); err != nil {
				return nil, fmt.Errorf("%w: %v", errInvalidWav, err)
			}
			info.AudioFormat = binary.LittleEndian.Uint16(f[0:2])
			info.NumChannels = binary.LittleEndian.Uint16(f[2:4])
			info.SampleRate = binary.LittleEndian.Uint32(f[4:8])
			info.BitsPerSample = binary.LittleEndian.Uint16(f[14:16])
			hasFmt = true
			if err := skip(r, int64(size-16)+int64(size%2)); err != nil {
				return nil, err
			}
		case "data":
			if !hasFmt {
				return nil, errInvalidWav
			}
			info.DataSize = size
			return info, nil
		default:
			if err := skip(r, int64(size)+int64(size%2)); err != nil {
				return nil, err
			}
		}
	}
}

func skip(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		return fmt.Errorf("%w: %v", errInvalidWav, err)
	}
	return nil
}
