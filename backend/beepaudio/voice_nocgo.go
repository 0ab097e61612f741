// SPDX-License-Identifier: EPL-2.0

//go:build !((linux && cgo) || windows || darwin)

package beepaudio

import (
	"log/slog"

	"github.com/ik5/audmix/voice"
)

// Available reports whether this build can open the speaker.
const Available = false

// Backend is a placeholder for builds without audio output.
type Backend struct{}

// NewBackend always fails with ErrUnavailable.
func NewBackend(int, *slog.Logger) (*Backend, error) {
	return nil, ErrUnavailable
}

func (*Backend) Factory(voice.Kind, int) (voice.Voice, error) {
	return nil, ErrUnavailable
}
