package pdhost

import "github.com/gordonklaus/portaudio"

// Device is the default system audio device, opened for duplex
// input/output (spec §6, live playback).
type Device struct {
	stream    *portaudio.Stream
	in        []float32
	out       []float32
	blockSize int
	numIn     int
	numOut    int
}

// OpenDevice initializes portaudio and opens the default duplex stream.
func OpenDevice(blockSize, numIn, numOut, sampleRate int) (*Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	d := &Device{
		blockSize: blockSize,
		numIn:     numIn,
		numOut:    numOut,
		in:        make([]float32, blockSize*numIn),
		out:       make([]float32, blockSize*numOut),
	}
	stream, err := portaudio.OpenDefaultStream(numIn, numOut, float64(sampleRate), blockSize, d.in, d.out)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	d.stream = stream
	if err := d.stream.Start(); err != nil {
		return nil, err
	}
	return d, nil
}

// Exchange runs one duplex block: reads the device's input into the
// device's own buffer, hands it to process, then writes the resulting
// output buffer to the device.
func (d *Device) Exchange(process func(in, out []float32)) error {
	if err := d.stream.Read(); err != nil {
		return err
	}
	process(d.in, d.out)
	return d.stream.Write()
}

// Close stops the stream and terminates portaudio.
func (d *Device) Close() error {
	if err := d.stream.Stop(); err != nil {
		return err
	}
	if err := d.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}
