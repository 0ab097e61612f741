// SPDX-License-Identifier: EPL-2.0

// Package sim implements voice.Voice against a manual clock so mixer
// behavior can be replayed deterministically, without audio hardware.
package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/voice"
)

// Clock is a manually advanced time source.
type Clock struct {
	mu    sync.Mutex
	now   time.Duration
	epoch time.Time
}

func NewClock() *Clock {
	return &Clock{epoch: time.Unix(0, 0).UTC()}
}

// Advance moves the clock forward. Negative steps are ignored.
func (c *Clock) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	c.mu.Lock()
	c.now += dt
	c.mu.Unlock()
}

// Now is the time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Time maps Now onto wall time starting at the Unix epoch.
func (c *Clock) Time() time.Time {
	return c.epoch.Add(c.Now())
}

// Voice plays clips for exactly their Duration on the shared clock. A clip
// without a duration plays until stopped.
type Voice struct {
	name  string
	clock *Clock

	clip    *clip.Clip
	started time.Duration
	playing bool
	looping bool

	volume float64
	muted  bool
	loop   bool

	plays int
	stops int
}

var _ voice.Voice = (*Voice)(nil)

func NewVoice(name string, clock *Clock) *Voice {
	return &Voice{name: name, clock: clock, volume: 1}
}

func (v *Voice) Play(c *clip.Clip) {
	v.clip = c
	v.started = v.clock.Now()
	v.playing = true
	v.looping = v.loop
	v.plays++
}

func (v *Voice) Stop() {
	v.playing = false
	v.stops++
}

func (v *Voice) IsPlaying() bool {
	if !v.playing || v.clip == nil {
		return false
	}
	d := v.clip.Duration
	if d <= 0 || v.looping {
		return true
	}
	return v.clock.Now()-v.started < d
}

func (v *Voice) SetVolume(vol float64) { v.volume = vol }
func (v *Voice) Volume() float64       { return v.volume }
func (v *Voice) SetMute(m bool)        { v.muted = m }
func (v *Voice) SetLoop(l bool)        { v.loop = l }

func (v *Voice) Elapsed() time.Duration {
	if !v.playing || v.clip == nil {
		return 0
	}
	return voice.Position(v.clock.Now()-v.started, v.clip.Duration, v.looping)
}

func (v *Voice) Duration() time.Duration {
	if v.clip == nil {
		return 0
	}
	return v.clip.Duration
}

// Output is the gain a listener would hear.
func (v *Voice) Output() float64 {
	if !v.IsPlaying() {
		return 0
	}
	return voice.Output(v.volume, v.muted)
}

// Clip is the clip most recently passed to Play.
func (v *Voice) Clip() *clip.Clip { return v.clip }

func (v *Voice) Muted() bool   { return v.muted }
func (v *Voice) Looping() bool { return v.looping }

// Plays counts Play calls.
func (v *Voice) Plays() int { return v.plays }

// Stops counts Stop calls.
func (v *Voice) Stops() int { return v.stops }

func (v *Voice) String() string {
	name := "-"
	if v.clip != nil {
		name = v.clip.Name
	}
	return fmt.Sprintf("%s[%s playing=%t vol=%.2f]", v.name, name, v.IsPlaying(), v.volume)
}

// Bank creates sim voices on demand and keeps them for inspection.
type Bank struct {
	clock   *Clock
	effects []*Voice
	music   []*Voice
}

func NewBank(clock *Clock) *Bank {
	return &Bank{clock: clock}
}

// Factory satisfies voice.Factory.
func (b *Bank) Factory(kind voice.Kind, index int) (voice.Voice, error) {
	v := NewVoice(fmt.Sprintf("%s%d", kind, index), b.clock)

	switch kind {
	case voice.Effect:
		b.effects = append(b.effects, v)
	case voice.Music:
		b.music = append(b.music, v)
	default:
		return nil, fmt.Errorf("sim: unknown voice kind %d", int(kind))
	}

	return v, nil
}

func (b *Bank) Effects() []*Voice { return b.effects }
func (b *Bank) Music() []*Voice   { return b.music }
