// SPDX-License-Identifier: EPL-2.0

//go:build !((linux && cgo) || windows || darwin)

package ebitenaudio

import (
	"log/slog"

	"github.com/ik5/audmix/voice"
)

// Available reports whether this build can open an audio context.
const Available = false

// Backend is a placeholder for builds without audio output. Its voices
// cannot be created.
type Backend struct{}

func NewBackend(int, *slog.Logger) *Backend { return &Backend{} }

func (*Backend) Factory(voice.Kind, int) (voice.Voice, error) {
	return nil, ErrUnavailable
}
