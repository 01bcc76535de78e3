package pdhost

import (
	"os"

	"github.com/viert/lame"
)

// Mp3Sink encodes the engine's interleaved output rail straight to an
// mp3 file via lame.
type Mp3Sink struct {
	file   *os.File
	writer *lame.LameWriter
}

// CreateMp3Sink creates path and configures the lame encoder.
func CreateMp3Sink(path string, sampleRate, channels, bitRate, quality int) (*Mp3Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := lame.NewWriter(f)
	w.Encoder.SetBitrate(bitRate)
	w.Encoder.SetQuality(quality)
	w.Encoder.SetNumChannels(channels)
	w.Encoder.SetInSamplerate(sampleRate)
	w.Encoder.InitParams()
	w.Encoder.SetMode(lame.JOINT_STEREO)
	w.Encoder.SetVBR(lame.VBR_RH)
	return &Mp3Sink{file: f, writer: w}, nil
}

// WriteBlock denormalizes a block of interleaved float32 samples in
// [-1, 1] to 16-bit PCM and feeds it to the encoder.
func (s *Mp3Sink) WriteBlock(in []float32) error {
	pcm := make([]byte, len(in)*2)
	for i, v := range in {
		sample := int16(v * 32767)
		pcm[i*2] = byte(sample)
		pcm[i*2+1] = byte(sample >> 8)
	}
	_, err := s.writer.Write(pcm)
	return err
}

// Close flushes and closes the encoder and the underlying file.
func (s *Mp3Sink) Close() error {
	if err := s.writer.Close(); err != nil {
		return err
	}
	return s.file.Close()
}
