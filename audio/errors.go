// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrUnknownFormat is returned by Registry.ForPath for an extension no
	// decoder claimed.
	ErrUnknownFormat = errors.New("audio: unknown format")
	ErrNoChannels    = errors.New("audio: stream has no channels")
)
