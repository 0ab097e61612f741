// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes the WAV files used for effects and test
// fixtures.
//
// Decoder wraps github.com/go-audio/wav and accepts integer PCM at 16,
// 24 or 32 bits. It walks to the data chunk up front so the returned
// source knows its frame count:
//
//	src, err := wav.Decoder{}.Decode(f)
//	n := src.(audio.Sized).Frames()
//
// WriteWAV16 produces the plain 44 byte header layout:
//
//	err := wav.WriteWAV16(f, 22050, 1, samples)
package wav
