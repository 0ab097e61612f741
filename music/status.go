// SPDX-License-Identifier: EPL-2.0

package music

// Status is the lifecycle state of one music channel.
type Status int

const (
	Stop Status = iota
	Playing
	WaitInterval
	FadeIn
	FadeOut
)

func (s Status) String() string {
	switch s {
	case Stop:
		return "stop"
	case Playing:
		return "playing"
	case WaitInterval:
		return "wait"
	case FadeIn:
		return "fade-in"
	case FadeOut:
		return "fade-out"
	default:
		return "invalid"
	}
}

// Track ids below zero are commands rather than tracks.
const (
	// Silent fades out whatever plays.
	Silent = -1
	// HardStop cuts both channels immediately.
	HardStop = -2
)
