package pdparse_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/pdengine/pdgraph"
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
	"github.com/dudk/pdengine/pdparse"
)

func writePatch(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadSimplePatchWiresConnections(t *testing.T) {
	dir := t.TempDir()
	patch := "#N canvas 0 0 450 300 10;\n" +
		"#X obj 10 10 osc~ 440;\n" +
		"#X obj 10 40 *~ 0.5;\n" +
		"#X obj 10 70 dac~;\n" +
		"#X connect 0 0 1 0;\n" +
		"#X connect 1 0 2 0;\n" +
		"#X connect 1 0 2 1;\n"
	path := writePatch(t, dir, "test.pd", patch)

	loader := pdparse.New(dir)
	root, err := loader.LoadFile(path, pdgraph.Config{
		BlockSize: 64, InputChannels: 2, OutputChannels: 2, SampleRate: 44100,
	})
	require.NoError(t, err)
	assert.Len(t, root.Objects(), 3)

	order := root.ProcessOrder()
	require.Len(t, order, 3)
	assert.Equal(t, "osc~", order[0].Label())
	assert.Equal(t, "dac~", order[2].Label())
}

func TestLoadPatchKeepsMsgBoxDollarUnresolved(t *testing.T) {
	dir := t.TempDir()
	patch := "#N canvas 0 0 450 300 10;\n" +
		"#X obj 10 10 msg $1;\n"
	path := writePatch(t, dir, "dollar.pd", patch)

	loader := pdparse.New(dir)
	root, err := loader.LoadFile(path, pdgraph.Config{
		BlockSize: 64, InputChannels: 0, OutputChannels: 0, SampleRate: 44100,
	})
	require.NoError(t, err)
	assert.Len(t, root.Objects(), 1)
}

func TestLoadAbstractionFromLibraryDirectory(t *testing.T) {
	libDir := t.TempDir()
	abstraction := "#N canvas 0 0 300 200 10;\n" +
		"#X obj 10 10 inlet;\n" +
		"#X obj 10 40 outlet;\n" +
		"#X connect 0 0 1 0;\n"
	writePatch(t, libDir, "passthrough.pd", abstraction)

	patchDir := t.TempDir()
	patch := "#N canvas 0 0 450 300 10;\n" +
		"#X obj 10 10 passthrough;\n"
	path := writePatch(t, patchDir, "main.pd", patch)

	loader := pdparse.New(libDir)
	root, err := loader.LoadFile(path, pdgraph.Config{
		BlockSize: 64, InputChannels: 0, OutputChannels: 0, SampleRate: 44100,
	})
	require.NoError(t, err)
	require.Len(t, root.Objects(), 1)
	sub, ok := root.Objects()[0].(*pdgraph.Graph)
	require.True(t, ok)
	assert.Equal(t, 1, sub.NumInlets())
	assert.Equal(t, 1, sub.NumOutlets())
}

func TestUnresolvedClassBecomesPlaceholder(t *testing.T) {
	dir := t.TempDir()
	patch := "#N canvas 0 0 450 300 10;\n" +
		"#X obj 10 10 totally-made-up-class 1 2 3;\n" +
		"#X obj 10 40 print;\n" +
		"#X connect 0 0 1 0;\n"
	path := writePatch(t, dir, "unknown.pd", patch)

	loader := pdparse.New(dir)
	root, err := loader.LoadFile(path, pdgraph.Config{
		BlockSize: 64, InputChannels: 0, OutputChannels: 0, SampleRate: 44100,
	})
	require.NoError(t, err)
	assert.Len(t, root.Objects(), 2)
}

func TestUnpackTypeTokensMatchARealFloat(t *testing.T) {
	dir := t.TempDir()
	patch := "#N canvas 0 0 450 300 10;\n" +
		"#X obj 10 10 unpack f s;\n"
	path := writePatch(t, dir, "unpack.pd", patch)

	loader := pdparse.New(dir)
	root, err := loader.LoadFile(path, pdgraph.Config{
		BlockSize: 64, InputChannels: 0, OutputChannels: 0, SampleRate: 44100,
	})
	require.NoError(t, err)
	require.Len(t, root.Objects(), 1)

	var received []string
	sink := newUnpackSink(&received)
	pdnode.Connect(root.Objects()[0], 0, sink, 0)

	root.Objects()[0].ReceiveMessage(0, pdmsg.NewStack(0, pdmsg.NewFloat(3.14), pdmsg.NewFloat(2.0)))
	assert.Equal(t, []string{"3.14"}, received)
}

type unpackSink struct {
	pdnode.BaseObject
	received *[]string
}

func newUnpackSink(received *[]string) *unpackSink {
	return &unpackSink{BaseObject: pdnode.NewBase("test-sink", 1, 0, nil, nil), received: received}
}

func (s *unpackSink) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	*s.received = append(*s.received, msg.String())
}

func TestDuplicateSendNameDoesNotAbortTheRestOfThePatch(t *testing.T) {
	dir := t.TempDir()
	patch := "#N canvas 0 0 450 300 10;\n" +
		"#X obj 10 10 send dup;\n" +
		"#X obj 10 40 send dup;\n" +
		"#X obj 10 70 print;\n"
	path := writePatch(t, dir, "dup.pd", patch)

	loader := pdparse.New(dir)
	root, err := loader.LoadFile(path, pdgraph.Config{
		BlockSize: 64, InputChannels: 0, OutputChannels: 0, SampleRate: 44100,
	})
	require.NoError(t, err)
	// the rejected second "send dup" is replaced with a placeholder but the
	// directive after it is still parsed, and the object count is preserved.
	assert.Len(t, root.Objects(), 3)
}
