// SPDX-License-Identifier: EPL-2.0

package music

import (
	"log/slog"
	"time"

	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/voice"
	"github.com/samber/lo"
)

// Timing holds the transition lengths. Interval is the silent gap between
// the end of a fade-out and the next fade-in; a negative interval overlaps
// the two into a crossfade.
type Timing struct {
	FadeIn   time.Duration
	FadeOut  time.Duration
	Interval time.Duration
}

// Normalize clamps negative fade durations to zero. Interval keeps its
// sign.
func (t Timing) Normalize() Timing {
	t.FadeIn = max(t.FadeIn, 0)
	t.FadeOut = max(t.FadeOut, 0)
	return t
}

type channel struct {
	voice     voice.Voice
	track     int
	state     Status
	prev      Status
	remaining time.Duration
	volume    float64
}

// ChannelInfo is a read-only view of one channel.
type ChannelInfo struct {
	Track     int
	State     Status
	Remaining time.Duration
	Volume    float64
	Main      bool
}

// ChannelPair alternates two voices so that one track can fade out while the
// next waits and fades in. The main channel is the one carrying, or about to
// carry, the requested track.
type ChannelPair struct {
	tracks []*clip.Clip
	ch     [2]channel
	main   int
	timing Timing
	volume float64
	coeff  float64
	loop   bool
	log    *slog.Logger
}

type Option func(*ChannelPair)

func WithLogger(l *slog.Logger) Option {
	return func(p *ChannelPair) { p.log = l }
}

// NewChannelPair takes ownership of both voices. They start stopped, at zero
// volume and looping.
func NewChannelPair(tracks []*clip.Clip, voices [2]voice.Voice, timing Timing, volume float64, opts ...Option) *ChannelPair {
	p := &ChannelPair{
		tracks: tracks,
		main:   1,
		timing: timing.Normalize(),
		volume: lo.Clamp(volume, 0, 1),
		coeff:  1,
		loop:   true,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}

	for i, v := range voices {
		p.ch[i] = channel{voice: v, track: Silent}
		v.SetLoop(true)
		v.SetVolume(0)
	}

	return p
}

// Tracks is the number of music clips.
func (p *ChannelPair) Tracks() int { return len(p.tracks) }

func (p *ChannelPair) Timing() Timing { return p.timing }

func (p *ChannelPair) inRange(track int) bool {
	return track >= 0 && track < len(p.tracks)
}

// target is the volume a fully faded-in channel plays at.
func (p *ChannelPair) target() float64 {
	return lo.Clamp(p.coeff*p.volume, 0, 1)
}

func (p *ChannelPair) active(i int) bool {
	return p.ch[i].state != Stop
}

// SetTrack requests track as the music. Silent, or any id outside the track
// list, fades the current music out. HardStop silences both channels at
// once.
func (p *ChannelPair) SetTrack(track int) {
	if track == HardStop {
		p.cut(0)
		p.cut(1)
		return
	}

	main, sub := p.main, 1-p.main

	if !p.inRange(track) {
		p.release(main)
		p.setState(sub, Stop)
		return
	}

	switch {
	case p.active(main) && p.ch[main].track == track:
		if p.ch[main].state == FadeOut {
			p.setState(main, FadeIn)
		}
		p.release(sub)

	case p.active(sub) && p.ch[sub].track == track:
		p.release(main)
		p.setState(sub, FadeIn)
		p.main = sub

	default:
		// The louder channel is the one to fade out.
		if p.active(sub) && (!p.active(main) || p.ch[sub].volume > p.ch[main].volume) {
			main, sub = sub, main
		}
		p.queue(main, sub, track)
	}
}

// Requeue starts track afresh on the other channel even when the main
// channel already plays it.
func (p *ChannelPair) Requeue(track int) {
	if !p.inRange(track) {
		p.SetTrack(track)
		return
	}
	p.queue(p.main, 1-p.main, track)
}

func (p *ChannelPair) queue(out, in, track int) {
	p.release(out)
	p.cut(in)
	p.ch[in].track = track
	p.setState(in, WaitInterval)
	p.main = in
}

// release fades a sounding channel out and stops an idle one.
func (p *ChannelPair) release(i int) {
	if p.active(i) {
		p.setState(i, FadeOut)
		return
	}
	p.setState(i, Stop)
}

// cut forces channel i to Stop, running the stop actions even if it was
// already there.
func (p *ChannelPair) cut(i int) {
	c := &p.ch[i]
	if c.state == Stop {
		p.enter(i)
		return
	}
	p.setState(i, Stop)
}

func (p *ChannelPair) setState(i int, s Status) {
	c := &p.ch[i]
	if c.state == s {
		return
	}

	p.log.Debug("music channel", "channel", i, "track", c.track, "from", c.state, "to", s)

	c.prev = c.state
	c.state = s
	p.enter(i)
}

// enter runs the entry actions of channel i's current state.
func (p *ChannelPair) enter(i int) {
	c := &p.ch[i]

	switch c.state {
	case Stop:
		c.remaining = 0
		p.setVolume(i, 0)
		c.voice.Stop()

	case Playing:
		c.remaining = 0
		p.setVolume(i, p.target())
		if c.prev != FadeIn && !c.voice.IsPlaying() {
			p.start(i)
		}

	case WaitInterval:
		c.remaining = p.timing.Interval
		if p.ch[1-i].state == FadeOut {
			c.remaining += p.timing.FadeOut
		}
		p.setVolume(i, 0)

	case FadeIn:
		c.remaining = scale(p.timing.FadeIn, 1-p.level(i))
		if !c.voice.IsPlaying() {
			p.start(i)
		}

	case FadeOut:
		if c.prev == FadeIn {
			c.remaining = scale(p.timing.FadeOut, p.level(i))
		} else {
			c.remaining = p.timing.FadeOut
		}
	}
}

func (p *ChannelPair) start(i int) {
	c := &p.ch[i]
	if !p.inRange(c.track) {
		return
	}
	c.voice.Play(p.tracks[c.track])
}

// level is channel i's volume as a fraction of the target.
func (p *ChannelPair) level(i int) float64 {
	t := p.target()
	if t <= 0 {
		return 0
	}
	return lo.Clamp(p.ch[i].volume/t, 0, 1)
}

func (p *ChannelPair) setVolume(i int, v float64) {
	p.ch[i].volume = v
	p.ch[i].voice.SetVolume(v)
}

// Update advances both channels by dt. A transition out of a state happens
// once its remaining time reaches zero; the state entered is not advanced
// until the next call. Non-positive dt does nothing.
func (p *ChannelPair) Update(dt time.Duration) {
	if dt <= 0 {
		return
	}
	for i := range p.ch {
		p.advance(i, dt)
	}
}

func (p *ChannelPair) advance(i int, dt time.Duration) {
	c := &p.ch[i]

	switch c.state {
	case Playing:
		// A clip started before looping was switched back on runs out once.
		if p.loop && !c.voice.IsPlaying() && p.inRange(c.track) {
			p.log.Debug("music channel rearmed", "channel", i, "track", c.track)
			p.start(i)
		}

	case WaitInterval:
		c.remaining -= dt
		if c.remaining <= 0 {
			p.setState(i, FadeIn)
		}

	case FadeIn:
		c.remaining -= dt
		if c.remaining <= 0 {
			p.setState(i, Playing)
			return
		}
		p.setVolume(i, p.target()*(1-ratio(c.remaining, p.timing.FadeIn)))

	case FadeOut:
		c.remaining -= dt
		if c.remaining <= 0 {
			p.setState(i, Stop)
			return
		}
		p.setVolume(i, p.target()*ratio(c.remaining, p.timing.FadeOut))
	}
}

// SetVolume changes the music volume. Values outside [0, 1] are rejected;
// either way the target volume is reapplied to Playing channels.
func (p *ChannelPair) SetVolume(v float64) {
	if v >= 0 && v <= 1 {
		p.volume = v
	} else {
		p.log.Warn("music volume out of range", "volume", v)
	}
	p.reapply()
}

// SetCoefficient scales the music volume, e.g. to duck it under dialogue.
func (p *ChannelPair) SetCoefficient(c float64) {
	if c >= 0 && c <= 1 {
		p.coeff = c
	} else {
		p.log.Warn("music coefficient out of range", "coefficient", c)
	}
	p.reapply()
}

func (p *ChannelPair) reapply() {
	for i := range p.ch {
		if p.ch[i].state == Playing {
			p.setVolume(i, p.target())
		}
	}
}

func (p *ChannelPair) Volume() float64      { return p.volume }
func (p *ChannelPair) Coefficient() float64 { return p.coeff }

func (p *ChannelPair) SetMute(m bool) {
	for i := range p.ch {
		p.ch[i].voice.SetMute(m)
	}
}

// SetLoop sets per-track looping for the next Play on both voices. With
// looping on, a Playing channel whose voice has run out is started again on
// the next Update.
func (p *ChannelPair) SetLoop(l bool) {
	p.loop = l
	for i := range p.ch {
		p.ch[i].voice.SetLoop(l)
	}
}

// Current is the track of the main channel, or Silent when it is stopped.
func (p *ChannelPair) Current() int {
	c := &p.ch[p.main]
	if c.state == Stop {
		return Silent
	}
	return c.track
}

// IsPlaying reports whether either channel is doing anything.
func (p *ChannelPair) IsPlaying() bool {
	return p.active(0) || p.active(1)
}

// Active lists the tracks held by non-stopped channels, main first.
func (p *ChannelPair) Active() []int {
	out := make([]int, 0, 2)
	for _, i := range []int{p.main, 1 - p.main} {
		if p.active(i) {
			out = append(out, p.ch[i].track)
		}
	}
	return out
}

// Main is the index of the main channel.
func (p *ChannelPair) Main() int { return p.main }

func (p *ChannelPair) Channel(i int) ChannelInfo {
	c := &p.ch[i]
	return ChannelInfo{
		Track:     c.track,
		State:     c.state,
		Remaining: c.remaining,
		Volume:    c.volume,
		Main:      i == p.main,
	}
}

// MainTimeLeft is how much of the main channel's clip is left to play. ok
// is false when the clip length is unknown.
func (p *ChannelPair) MainTimeLeft() (left time.Duration, ok bool) {
	v := p.ch[p.main].voice
	d := v.Duration()
	if d <= 0 {
		return 0, false
	}
	return d - v.Elapsed(), true
}

// MainElapsed is the playback position of the main channel's voice.
func (p *ChannelPair) MainElapsed() time.Duration {
	return p.ch[p.main].voice.Elapsed()
}

func scale(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}

func ratio(remaining, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return lo.Clamp(float64(remaining)/float64(total), 0, 1)
}
