// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"fmt"
	"time"
)

// Clip is an immutable, fully decoded sound asset. Clips are shared by
// every voice that plays them.
type Clip struct {
	Name       string
	Format     string
	SampleRate int
	Channels   int
	Duration   time.Duration

	samples []float32
}

// New returns a clip with no audio data. Simulated voices only need the
// name and duration; real backends play it as silence.
func New(name string, d time.Duration) *Clip {
	return &Clip{Name: name, Format: "none", Duration: d}
}

// FromPCM wraps interleaved float32 samples.
func FromPCM(name string, sampleRate, channels int, samples []float32) (*Clip, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if channels < 1 || len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d channels for %d samples", ErrInvalidLayout, channels, len(samples))
	}

	frames := len(samples) / channels
	return &Clip{
		Name:       name,
		Format:     "pcm",
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   framesToDuration(frames, sampleRate),
		samples:    samples,
	}, nil
}

// Samples returns the interleaved PCM data. Callers must not modify it.
func (c *Clip) Samples() []float32 { return c.samples }

// Frames is the number of sample frames held by the clip.
func (c *Clip) Frames() int {
	if c.Channels < 1 {
		return 0
	}
	return len(c.samples) / c.Channels
}

func (c *Clip) String() string {
	return fmt.Sprintf("%s (%s, %s)", c.Name, c.Format, c.Duration)
}

func framesToDuration(frames, sampleRate int) time.Duration {
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
