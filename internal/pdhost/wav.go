// Package pdhost wires the engine to concrete audio I/O backends: wav and
// aiff files, the default system device via portaudio, and mp3 rendering
// via lame (spec §6, host integration). Nothing in pdgraph or pdobj
// depends on this package; cmd/pdrun is the only caller.
package pdhost

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavSource streams a wav file block by block into the engine's input
// rail format: frame-major interleaved float32 in [-1, 1].
type WavSource struct {
	file    *os.File
	decoder *wav.Decoder
	buf     *audio.IntBuffer
}

// OpenWavSource opens path and validates it decodes as PCM wav.
func OpenWavSource(path string, blockSize int) (*WavSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("pdhost: %q is not a valid wav file", path)
	}
	return &WavSource{
		file:    f,
		decoder: decoder,
		buf: &audio.IntBuffer{
			Format: decoder.Format(),
			Data:   make([]int, blockSize*decoder.Format().NumChannels),
		},
	}, nil
}

// Channels reports the file's channel count and sample rate.
func (s *WavSource) Channels() int   { return s.decoder.Format().NumChannels }
func (s *WavSource) SampleRate() int { return int(s.decoder.SampleRate) }
func (s *WavSource) BitDepth() int   { return int(s.decoder.BitDepth) }

// ReadBlock fills out (frame-major interleaved) with the next block of
// samples, normalized to [-1, 1]. It returns the number of frames read,
// which is less than the caller's block size at end of file.
func (s *WavSource) ReadBlock(out []float32) (int, error) {
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
func (s *WavSource) Close() error { return s.file.Close() }

// WavSink writes the engine's interleaved output rail to a PCM wav file.
type WavSink struct {
	file     *os.File
	encoder  *wav.Encoder
	buf      *audio.IntBuffer
	bitDepth int
}

// CreateWavSink creates path and prepares a PCM encoder for the given
// format.
func CreateWavSink(path string, channels, sampleRate, bitDepth int) (*WavSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	encoder := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	return &WavSink{
		file:     f,
		encoder:  encoder,
		bitDepth: bitDepth,
		buf: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		},
	}, nil
}

// WriteBlock denormalizes and writes one block of interleaved float32
// samples in [-1, 1].
func (s *WavSink) WriteBlock(in []float32) error {
	maxVal := float32(int(1) << (uint(s.bitDepth) - 1))
	data := make([]int, len(in))
	for i, v := range in {
		data[i] = int(v * maxVal)
	}
	s.buf.Data = data
	return s.encoder.Write(s.buf)
}

// Close flushes the wav header and closes the file.
func (s *WavSink) Close() error {
	if err := s.encoder.Close(); err != nil {
		return err
	}
	return s.file.Close()
}
