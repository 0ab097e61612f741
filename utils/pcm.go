// SPDX-License-Identifier: EPL-2.0

package utils

import "encoding/binary"

// Float32ToInt16 clamps x to [-1, 1] and scales it to int16.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 keeps +1.0 from overflowing
	return int16(x * 32767.0)
}

// IntScale returns the divisor that maps a signed integer sample of the
// given bit depth into [-1, 1]. Unknown depths fall back to 16 bit.
func IntScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

// IntsToFloat32 normalizes src into dst and returns the number of values
// written, which is min(len(dst), len(src)).
func IntsToFloat32(dst []float32, src []int, bitDepth int) int {
	scale := IntScale(bitDepth)
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float32(src[i]) / scale
	}
	return n
}

// Int16LEToFloat32 decodes little endian int16 pairs from src into dst.
// A trailing odd byte is ignored.
func Int16LEToFloat32(dst []float32, src []byte) int {
	n := min(len(dst), len(src)/2)
	for i := range n {
		v := int16(binary.LittleEndian.Uint16(src[2*i:]))
		dst[i] = float32(v) / 32768.0
	}
	return n
}

// AppendStereo16LE appends interleaved samples with the given channel count
// to dst as 16 bit little endian stereo frames. Mono is duplicated to both
// sides; channels past the second are dropped.
func AppendStereo16LE(dst []byte, samples []float32, channels int) []byte {
	if channels < 1 {
		return dst
	}

	frames := len(samples) / channels
	var frame [4]byte
	for f := range frames {
		l := samples[f*channels]
		r := l
		if channels > 1 {
			r = samples[f*channels+1]
		}
		binary.LittleEndian.PutUint16(frame[0:2], uint16(Float32ToInt16(l)))
		binary.LittleEndian.PutUint16(frame[2:4], uint16(Float32ToInt16(r)))
		dst = append(dst, frame[:]...)
	}

	return dst
}
