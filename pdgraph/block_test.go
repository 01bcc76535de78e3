package pdgraph_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/pdengine/pdgraph"
	"github.com/dudk/pdengine/pdparse"
)

// TestProcessDrivesOscillatorThroughDac exercises the full block engine,
// not just the planner or an object in isolation: a patch is loaded, run
// for one block, and the dac~ output is checked against the
// documented 440Hz/0.5-gain waveform sample by sample (spec §5, §8
// scenario 1: "output samples[i] = 0.5 x sin(2*pi*440*i/44100)").
func TestProcessDrivesOscillatorThroughDac(t *testing.T) {
	dir := t.TempDir()
	patch := "#N canvas 0 0 450 300 10;\n" +
		"#X obj 10 10 osc~ 440;\n" +
		"#X obj 10 40 *~ 0.5;\n" +
		"#X obj 10 70 dac~ 1;\n" +
		"#X connect 0 0 1 0;\n" +
		"#X connect 1 0 2 0;\n"
	path := writeTestPatch(t, dir, "osc.pd", patch)

	const (
		blockSize  = 8
		sampleRate = 44100
		freq       = 440
	)
	loader := pdparse.New(dir)
	root, err := loader.LoadFile(path, pdgraph.Config{
		BlockSize: blockSize, InputChannels: 1, OutputChannels: 1, SampleRate: sampleRate,
	})
	require.NoError(t, err)

	in := make([]float32, blockSize)
	out := make([]float32, blockSize)
	root.Process(in, out)

	for i, v := range out {
		want := 0.5 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
		assert.InDelta(t, want, v, 1e-5, "sample %d", i)
	}
}

func writeTestPatch(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
