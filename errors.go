// SPDX-License-Identifier: EPL-2.0

package audmix

import "errors"

var (
	ErrInvalidConfig  = errors.New("invalid mixer config")
	ErrNoEffectVoices = errors.New("at least one effect voice is required")
	ErrNilFactory     = errors.New("voice factory is nil")
	ErrClosed         = errors.New("mixer is closed")
)
