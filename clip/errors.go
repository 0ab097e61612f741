// SPDX-License-Identifier: EPL-2.0

package clip

import "errors"

var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidLayout     = errors.New("sample count does not match channel layout")
)
