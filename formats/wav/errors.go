// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWAV   = errors.New("wav: not a RIFF/WAVE stream")
	ErrNotPCM   = errors.New("wav: sample data is not integer PCM")
	ErrBitDepth = errors.New("wav: bit depth not supported")

	// ErrInvalidChannels is returned by WriteWAV16 for a channel count
	// below one.
	ErrInvalidChannels = errors.New("wav: channel count must be at least 1")
)
