package pdgraph

// Process drives one block of the engine (spec §4.6): it copies the
// host's interleaved input into the root input rail, drains every message
// due in this block, runs the signal execution order, copies the root
// output rail back out as interleaved samples for the host, and finally
// advances the block clock. It must only be called on the root graph.
//
// in and out are frame-major interleaved buffers sized
// blockSize*inputChannels and blockSize*outputChannels respectively.
func (g *Graph) Process(in, out []float32) {
	r := g.root
	if r == nil {
		panic("pdgraph: Process called on a non-root graph")
	}

	// Step 1: land the host's input and clear the output rail so leftover
	// samples from a previous block never leak through an object that
	// didn't write this block (spec §4.6 step 1).
	if len(in) > 0 {
		r.inputRail.CopyFromInterleaved(in, r.inputChannels, r.blockSize)
	}
	r.outputRail.Zero()

	// Step 2: drain every message whose timestamp falls within
	// [blockStart, blockStart+blockDuration) (spec §4.6 step 2). Message
	// handlers can themselves schedule further in-window deliveries; the
	// scheduler re-checks its own head after each delivery, so those are
	// not missed.
	r.scheduler.DrainBlock(r.blockStartTimestamp, r.blockDurationMs)

	// Step 3: run the cached signal execution order end to end, source to
	// sink, touching only objects that process audio (spec §4.4, §4.6
	// step 3).
	for _, o := range g.ProcessOrder() {
		o.ProcessDsp(r.blockSize)
	}

	// Step 4: copy the finished output rail out to the host.
	if len(out) > 0 {
		r.outputRail.CopyToInterleaved(out, r.outputChannels, r.blockSize)
	}

	// Step 5: advance the block clock for the next call (spec §4.6 step 5).
	r.blockStartTimestamp += r.blockDurationMs
}

// BlockStartTimestampValue exposes the current block clock for hosts and
// tests that need to stamp messages relative to engine time without going
// through the pdnode.Owner interface.
func (g *Graph) BlockStartTimestampValue() float64 {
	return g.rootGraph().root.blockStartTimestamp
}
