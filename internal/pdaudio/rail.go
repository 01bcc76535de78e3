// Package pdaudio holds the host-boundary audio rail helpers used by the
// block engine: conversion between the host's frame-major interleaved
// float32 buffers and the root graph's channel-major rails.
package pdaudio

import "time"

// Rail is a flat, channel-major buffer: all samples of channel 0, then all
// samples of channel 1, and so on. It backs both the root input rail and
// the root output rail described in spec §3 ("Graph" invariants).
type Rail []float32

// NewRail allocates a zeroed rail sized for the given channel count and
// block size.
func NewRail(channels, blockSize int) Rail {
	return make(Rail, channels*blockSize)
}

// Channel returns a slice view onto one channel's samples within the rail.
// The view aliases the rail's backing array; it is not a copy.
func (r Rail) Channel(channel, blockSize int) []float32 {
	start := channel * blockSize
	return r[start : start+blockSize]
}

// CopyFromInterleaved copies a host-supplied interleaved buffer
// (frame-major: ch0,ch1,...,chN, ch0,ch1,...) into this channel-major rail.
func (r Rail) CopyFromInterleaved(in []float32, channels, blockSize int) {
	for frame := 0; frame < blockSize; frame++ {
		for ch := 0; ch < channels; ch++ {
			r[ch*blockSize+frame] = in[frame*channels+ch]
		}
	}
}

// CopyToInterleaved copies this channel-major rail into a host-supplied
// interleaved output buffer.
func (r Rail) CopyToInterleaved(out []float32, channels, blockSize int) {
	for frame := 0; frame < blockSize; frame++ {
		for ch := 0; ch < channels; ch++ {
			out[frame*channels+ch] = r[ch*blockSize+frame]
		}
	}
}

// Zero clears the rail in place, used to reset the output rail at the
// start of each block (spec §4.6 step 1).
func (r Rail) Zero() {
	for i := range r {
		r[i] = 0
	}
}

// DurationOf returns the time duration represented by a count of samples
// at the given sample rate.
func DurationOf(sampleRate int, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// BlockDurationMs returns the duration in milliseconds of one block,
// matching spec §6's blockDurationMs formula.
func BlockDurationMs(blockSize, sampleRate int) float64 {
	return 1000.0 * float64(blockSize) / float64(sampleRate)
}
