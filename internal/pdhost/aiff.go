package pdhost

import (
	"fmt"
	"os"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

// AiffSource streams an aiff file, mirroring WavSource's normalized
// float32 interleaved output.
type AiffSource struct {
	file    *os.File
	decoder *aiff.Decoder
	buf     *audio.IntBuffer
}

// OpenAiffSource opens path and validates it decodes as PCM aiff.
func OpenAiffSource(path string, blockSize int) (*AiffSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	decoder := aiff.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("pdhost: %q is not a valid aiff file", path)
	}
	return &AiffSource{
		file:    f,
		decoder: decoder,
		buf: &audio.IntBuffer{
			Format: decoder.Format(),
			Data:   make([]int, blockSize*decoder.Format().NumChannels),
		},
	}, nil
}

func (s *AiffSource) Channels() int   { return s.decoder.Format().NumChannels }
func (s *AiffSource) SampleRate() int { return int(s.decoder.SampleRate) }
func (s *AiffSource) BitDepth() int   { return int(s.decoder.BitDepth) }

// ReadBlock fills out with the next block of samples, normalized to
// [-1, 1]; see WavSource.ReadBlock.
func (s *AiffSource) ReadBlock(out []float32) (int, error) {
	n, err := s.decoder.PCMBuffer(s.buf)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	maxVal := float32(int(1) << (uint(s.BitDepth()) - 1))
	frames := n / s.Channels()
	for i := 0; i < n; i++ {
		out[i] = float32(s.buf.Data[i]) / maxVal
	}
	return frames, nil
}

// Close releases the underlying file.
func (s *AiffSource) Close() error { return s.file.Close() }
