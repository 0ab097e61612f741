// SPDX-License-Identifier: EPL-2.0

package beepaudio

import "errors"

var (
	ErrUnavailable  = errors.New("beep audio output is not available in this build")
	ErrRateMismatch = errors.New("speaker already initialized at another sample rate")
)
