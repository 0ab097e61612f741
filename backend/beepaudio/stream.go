// SPDX-License-Identifier: EPL-2.0

package beepaudio

import (
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/voice"
)

// clipStreamer streams a clip's decoded samples as stereo frames. Mono is
// copied to both sides and channels past the second are dropped.
type clipStreamer struct {
	samples  []float32
	channels int
	pos      int
}

func newClipStreamer(c *clip.Clip) *clipStreamer {
	return &clipStreamer{samples: c.Samples(), channels: c.Channels}
}

func (s *clipStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.channels <= 0 {
		return 0, false
	}

	for n < len(samples) && s.pos+s.channels <= len(s.samples) {
		frame := s.samples[s.pos : s.pos+s.channels]
		left := float64(frame[0])
		right := left
		if s.channels > 1 {
			right = float64(frame[1])
		}
		samples[n] = [2]float64{left, right}
		s.pos += s.channels
		n++
	}

	return n, n > 0
}

func (s *clipStreamer) Err() error { return nil }

// format describes c as a beep stream.
func format(c *clip.Clip) beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(c.SampleRate),
		NumChannels: 2,
		Precision:   2,
	}
}

// newBuffer decodes c into memory once.
func newBuffer(c *clip.Clip) *beep.Buffer {
	buf := beep.NewBuffer(format(c))
	buf.Append(newClipStreamer(c))
	return buf
}

// gain converts a voice volume into the effects.Gain offset, which scales
// by 1+Gain.
func gain(volume float64, muted bool) float64 {
	return voice.Output(volume, muted) - 1
}

// position is how far a play has got. Once its stream has run out it stays
// at the clip length, so callers see the end rather than a reset to zero.
// The speaker lock must be held for a live stream.
func position(s beep.StreamSeeker, rate beep.SampleRate, finished bool, length time.Duration) time.Duration {
	if finished {
		return length
	}
	return rate.D(s.Position())
}
