// SPDX-License-Identifier: EPL-2.0

package effect

import (
	"log/slog"
	"slices"
	"time"

	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/voice"
	"github.com/samber/lo"
)

// Silent is the clip index reported when no effect plays.
const Silent = -1

type slot struct {
	voice   voice.Voice
	clip    int
	started time.Time
	// seq orders plays that share a start stamp.
	seq uint64
}

// Pool plays short one-shot clips on a fixed set of voices. When every
// voice is busy the one that started earliest is taken over.
type Pool struct {
	clips  []*clip.Clip
	slots  []slot
	volume float64
	now    func() time.Time
	plays  uint64
	log    *slog.Logger
}

type Option func(*Pool)

// WithClock replaces time.Now as the source of start stamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) { p.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) { p.log = l }
}

// NewPool takes ownership of voices. Each voice gets looping disabled and
// the initial volume applied.
func NewPool(clips []*clip.Clip, voices []voice.Voice, volume float64, opts ...Option) *Pool {
	p := &Pool{
		clips:  clips,
		slots:  make([]slot, len(voices)),
		volume: clamp01(volume),
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}

	for i, v := range voices {
		p.slots[i] = slot{voice: v, clip: Silent}
		v.SetLoop(false)
		v.SetVolume(p.volume)
	}

	return p
}

// Clips is the number of effect clips known to the pool.
func (p *Pool) Clips() int { return len(p.clips) }

// Voices is the number of voices in the pool.
func (p *Pool) Voices() int { return len(p.slots) }

func (p *Pool) inRange(index int) bool {
	return index >= 0 && index < len(p.clips)
}

// Play starts clip index on the first idle voice, or on the voice that
// started earliest when all are busy. An index outside the clip list stops
// every voice instead.
func (p *Pool) Play(index int) {
	if !p.inRange(index) {
		p.StopAll()
		return
	}

	target := p.pick()
	if target < 0 {
		return
	}

	s := &p.slots[target]
	if s.voice.IsPlaying() {
		p.log.Debug("effect voice stolen", "voice", target, "was", s.clip, "clip", index)
	}

	p.plays++
	s.clip = index
	s.started = p.now()
	s.seq = p.plays
	s.voice.Play(p.clips[index])
}

// PlayIfAbsent plays index only when no voice is currently playing it.
func (p *Pool) PlayIfAbsent(index int) {
	if p.oldestPlaying(index) >= 0 {
		return
	}
	p.Play(index)
}

// StopOldest stops the voice that has been playing index the longest.
// Out of range indexes are ignored.
func (p *Pool) StopOldest(index int) {
	if !p.inRange(index) {
		return
	}

	if i := p.oldestPlaying(index); i >= 0 {
		p.slots[i].voice.Stop()
	}
}

func (p *Pool) StopAll() {
	for i := range p.slots {
		p.slots[i].voice.Stop()
	}
}

// Current is the clip of the most recently started voice that is still
// playing, or Silent. Plays with the same start stamp rank in call order.
func (p *Pool) Current() int {
	best := -1
	for i := range p.slots {
		s := &p.slots[i]
		if !s.voice.IsPlaying() {
			continue
		}
		if best < 0 || s.newer(&p.slots[best]) {
			best = i
		}
	}

	if best < 0 {
		return Silent
	}
	return p.slots[best].clip
}

// Active lists the distinct clips currently playing, in ascending order.
func (p *Pool) Active() []int {
	playing := lo.FilterMap(p.slots, func(s slot, _ int) (int, bool) {
		return s.clip, s.voice.IsPlaying()
	})

	out := lo.Uniq(playing)
	slices.Sort(out)
	return out
}

// IsPlaying reports whether any voice is playing clip index.
func (p *Pool) IsPlaying(index int) bool {
	return p.oldestPlaying(index) >= 0
}

// SetVolume applies v to every voice. Values outside [0, 1] are rejected
// and the stored volume is reapplied.
func (p *Pool) SetVolume(v float64) {
	if v >= 0 && v <= 1 {
		p.volume = v
	} else {
		p.log.Warn("effect volume out of range", "volume", v)
	}

	for i := range p.slots {
		p.slots[i].voice.SetVolume(p.volume)
	}
}

func (p *Pool) Volume() float64 { return p.volume }

func (p *Pool) SetMute(m bool) {
	for i := range p.slots {
		p.slots[i].voice.SetMute(m)
	}
}

// Silence stops every voice and zeroes its volume.
func (p *Pool) Silence() {
	for i := range p.slots {
		p.slots[i].voice.Stop()
		p.slots[i].voice.SetVolume(0)
	}
}

// pick returns the first idle voice, else the earliest started one. Equal
// stamps resolve to the lowest index.
func (p *Pool) pick() int {
	oldest := -1
	for i := range p.slots {
		if !p.slots[i].voice.IsPlaying() {
			return i
		}
		if oldest < 0 || p.slots[i].started.Before(p.slots[oldest].started) {
			oldest = i
		}
	}
	return oldest
}

func (p *Pool) oldestPlaying(index int) int {
	oldest := -1
	for i := range p.slots {
		s := &p.slots[i]
		if s.clip != index || !s.voice.IsPlaying() {
			continue
		}
		if oldest < 0 || s.started.Before(p.slots[oldest].started) {
			oldest = i
		}
	}
	return oldest
}

func (s *slot) newer(o *slot) bool {
	if !s.started.Equal(o.started) {
		return s.started.After(o.started)
	}
	return s.seq > o.seq
}

func clamp01(v float64) float64 {
	return lo.Clamp(v, 0, 1)
}
