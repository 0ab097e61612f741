// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAIFF covers both garbage input and AIFF-C, which go-audio
	// refuses to parse.
	ErrNotAIFF  = errors.New("aiff: not an uncompressed AIFF stream")
	ErrBitDepth = errors.New("aiff: bit depth not supported")
)
