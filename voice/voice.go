// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"time"

	"github.com/ik5/audmix/clip"
)

// Voice is a single playback slot able to play one clip at a time.
// Implementations are driven from one goroutine and need not be safe for
// concurrent use.
type Voice interface {
	// Play starts c from its beginning, replacing whatever was playing.
	Play(c *clip.Clip)
	Stop()
	IsPlaying() bool

	// SetVolume sets the linear gain in [0, 1].
	SetVolume(v float64)
	Volume() float64

	// SetMute silences output without touching the stored volume.
	SetMute(m bool)
	// SetLoop decides whether the next Play repeats the clip forever.
	SetLoop(l bool)

	// Elapsed is the playback position within the current clip.
	Elapsed() time.Duration
	// Duration is the length of the current clip, zero when unknown.
	Duration() time.Duration
}

// Kind tells a Factory what a voice will be used for.
type Kind int

const (
	Effect Kind = iota
	Music
)

func (k Kind) String() string {
	switch k {
	case Effect:
		return "effect"
	case Music:
		return "music"
	default:
		return "unknown"
	}
}

// Factory creates the index-th voice of the given kind.
type Factory func(kind Kind, index int) (Voice, error)

// Position maps a running playback position onto a clip of the given
// length. Looping positions wrap; others stop at the end. An unknown
// length leaves pos unchanged.
func Position(pos, length time.Duration, looping bool) time.Duration {
	switch {
	case pos <= 0:
		return 0
	case length <= 0:
		return pos
	case looping:
		return pos % length
	default:
		return min(pos, length)
	}
}

// Output is the gain actually sent to the device for a stored volume and
// mute flag.
func Output(volume float64, muted bool) float64 {
	if muted {
		return 0
	}
	return max(0, min(volume, 1))
}
