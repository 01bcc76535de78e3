package pdmsg_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"

	"github.com/dudk/pdengine/pdmsg"
)

func TestToHeapCopiesAndStartsUnreserved(t *testing.T) {
	stack := pdmsg.NewStack(12.5, pdmsg.NewFloat(3.14), pdmsg.NewSymbol("hi"))
	heap := stack.ToHeap()

	assert.True(t, heap.IsHeap())
	assert.False(t, stack.IsHeap())
	assert.Equal(t, int32(0), heap.Reserved())
	assert.Equal(t, stack.String(), heap.String(), spew.Sdump(stack, heap))

	// mutating the stack message's backing slice must not affect the copy
	stack.Elements[0] = pdmsg.NewFloat(99)
	assert.NotEqual(t, stack.String(), heap.String())
}

func TestReserveReleaseRoundTrips(t *testing.T) {
	m := pdmsg.NewStack(0).ToHeap()
	m.Reserve()
	m.Reserve()
	assert.Equal(t, int32(2), m.Reserved())
	m.Release()
	assert.Equal(t, int32(1), m.Reserved())
	m.Release()
	assert.Equal(t, int32(0), m.Reserved())
}

func TestReleaseBelowZeroPanics(t *testing.T) {
	m := pdmsg.NewStack(0).ToHeap()
	assert.Panics(t, func() { m.Release() })
}

func TestTypeMatches(t *testing.T) {
	anyTemplate := pdmsg.NewAny()
	assert.True(t, anyTemplate.TypeMatches(pdmsg.NewFloat(1)))
	assert.True(t, anyTemplate.TypeMatches(pdmsg.NewSymbol("x")))

	floatTemplate := pdmsg.NewFloat(0)
	assert.True(t, floatTemplate.TypeMatches(pdmsg.NewFloat(2)))
	assert.False(t, floatTemplate.TypeMatches(pdmsg.NewSymbol("x")))
}

func TestPoolReusesSlots(t *testing.T) {
	p := pdmsg.NewPool(2, 4)
	a := p.Get(0)
	a.Elements = append(a.Elements, pdmsg.NewFloat(1))
	b := p.Get(0)
	c := p.Get(0) // wraps back to slot a's underlying storage
	assert.Same(t, a, c)
	assert.Len(t, c.Elements, 0)
	_ = b
}

func TestResolveDollar(t *testing.T) {
	args := []pdmsg.Element{pdmsg.NewFloat(0), pdmsg.NewFloat(0.25)}
	e := pdmsg.NewDollar(1)
	resolved, err := e.ResolveDollar(args)
	assert.NoError(t, err)
	assert.Equal(t, pdmsg.Float, resolved.Kind)
	assert.Equal(t, float32(0.25), resolved.Float)

	_, err = pdmsg.NewDollar(5).ResolveDollar(args)
	assert.Error(t, err)
}

func TestResolveDollarZeroIsTheGraphID(t *testing.T) {
	args := []pdmsg.Element{pdmsg.NewFloat(7), pdmsg.NewFloat(0.25)}
	e := pdmsg.NewDollar(0)
	assert.True(t, e.IsDollar())

	resolved, err := e.ResolveDollar(args)
	assert.NoError(t, err)
	assert.Equal(t, pdmsg.Float, resolved.Kind)
	assert.Equal(t, float32(7), resolved.Float)
	assert.False(t, resolved.IsDollar())
}
