// Command pdrun loads a patch file and drives it block by block against
// a wav file, an aiff file, an mp3 render, or the default system audio
// device, depending on the flags given (spec §6, host integration).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dudk/pdengine/internal/pdhost"
	"github.com/dudk/pdengine/pdgraph"
	"github.com/dudk/pdengine/pdparse"
)

var (
	successExitCode = 0
	errorExitCode   = 1
)

func main() {
	patch := flag.String("patch", "", "path to the .pd patch file to load")
	libraryDir := flag.String("lib", "", "directory to search for abstraction files")
	blockSize := flag.Int("blocksize", 64, "samples per block")
	sampleRate := flag.Int("samplerate", 44100, "sample rate in Hz")
	channels := flag.Int("channels", 2, "input/output channel count")
	inFile := flag.String("in", "", "wav or aiff file to stream into the patch's adc~")
	outFile := flag.String("out", "", "wav file to render the patch's dac~ to")
	mp3File := flag.String("mp3", "", "mp3 file to render the patch's dac~ to")
	live := flag.Bool("live", false, "play through the default system audio device instead of files")
	blocks := flag.Int("blocks", 0, "number of blocks to run; 0 runs until the -in file ends, or without end")
	flag.Parse()

	if err := run(runConfig{
		patch: *patch, libraryDir: *libraryDir,
		blockSize: *blockSize, sampleRate: *sampleRate, channels: *channels,
		inFile: *inFile, outFile: *outFile, mp3File: *mp3File,
		live: *live, blocks: *blocks,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "pdrun: %v\n", err)
		os.Exit(errorExitCode)
	}
	os.Exit(successExitCode)
}

type runConfig struct {
	patch, libraryDir        string
	blockSize, sampleRate    int
	channels                 int
	inFile, outFile, mp3File string
	live                     bool
	blocks                   int
}

func run(cfg runConfig) error {
	if cfg.patch == "" {
		return fmt.Errorf("-patch is required")
	}

	loader := pdparse.New(cfg.libraryDir)
	root, err := loader.LoadFile(cfg.patch, pdgraph.Config{
		BlockSize:      cfg.blockSize,
		InputChannels:  cfg.channels,
		OutputChannels: cfg.channels,
		SampleRate:     float64(cfg.sampleRate),
	})
	if err != nil {
		return err
	}

	if cfg.live {
		return runLive(root, cfg)
	}
	return runOffline(root, cfg)
}

func runLive(root *pdgraph.Graph, cfg runConfig) error {
	device, err := pdhost.OpenDevice(cfg.blockSize, cfg.channels, cfg.channels, cfg.sampleRate)
	if err != nil {
		return err
	}
	defer device.Close()

	blocks := cfg.blocks
	if blocks <= 0 {
		blocks = 1 << 30 // effectively unbounded; the user interrupts the process
	}
	for i := 0; i < blocks; i++ {
		if err := device.Exchange(root.Process); err != nil {
			return err
		}
	}
	return nil
}

func runOffline(root *pdgraph.Graph, cfg runConfig) error {
	var src interface {
		Channels() int
		ReadBlock([]float32) (int, error)
		Close() error
	}
	var err error
	switch {
	case cfg.inFile != "":
		if hasSuffix(cfg.inFile, ".aiff") || hasSuffix(cfg.inFile, ".aif") {
			src, err = pdhost.OpenAiffSource(cfg.inFile, cfg.blockSize)
		} else {
			src, err = pdhost.OpenWavSource(cfg.inFile, cfg.blockSize)
		}
		if err != nil {
			return err
		}
		defer src.Close()
	}

	var wavSink *pdhost.WavSink
	if cfg.outFile != "" {
		wavSink, err = pdhost.CreateWavSink(cfg.outFile, cfg.channels, cfg.sampleRate, 16)
		if err != nil {
			return err
		}
		defer wavSink.Close()
	}

	var mp3Sink *pdhost.Mp3Sink
	if cfg.mp3File != "" {
		mp3Sink, err = pdhost.CreateMp3Sink(cfg.mp3File, cfg.sampleRate, cfg.channels, 192, 2)
		if err != nil {
			return err
		}
		defer mp3Sink.Close()
	}

	in := make([]float32, cfg.blockSize*cfg.channels)
	out := make([]float32, cfg.blockSize*cfg.channels)

	blocks := cfg.blocks
	for i := 0; blocks <= 0 || i < blocks; i++ {
		if src != nil {
			frames, readErr := src.ReadBlock(in)
			if readErr != nil {
				return readErr
			}
			if frames == 0 {
				break
			}
		}

		root.Process(in, out)

		if wavSink != nil {
			if err := wavSink.WriteBlock(out); err != nil {
				return err
			}
		}
		if mp3Sink != nil {
			if err := mp3Sink.WriteBlock(out); err != nil {
				return err
			}
		}
	}
	return nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
