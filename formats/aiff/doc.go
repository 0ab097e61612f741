// SPDX-License-Identifier: EPL-2.0

// Package aiff plugs github.com/go-audio/aiff into the audio registry.
//
// The frame count comes from the COMM chunk, so clips decoded from AIFF
// are read into a buffer sized once:
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrBitDepth) {
//	    // 12 bit and other odd sizes
//	}
package aiff
