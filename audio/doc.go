// SPDX-License-Identifier: EPL-2.0

// Package audio is the decoding seam between files on disk and clips in
// memory.
//
// A Decoder turns a byte stream into a Source of interleaved float32
// samples in [-1, 1]. The Registry picks the decoder for a file by its
// extension:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{}, "wav", "wave")
//	_, dec, err := reg.ForPath("sfx/jump.wav")
//
// ReadAll drains a Source into one slice. Sources that also implement
// Sized let it reserve the whole buffer before reading. IntSource adapts
// the integer PCM readers of go-audio so the WAV and AIFF packages share
// one conversion path.
package audio
