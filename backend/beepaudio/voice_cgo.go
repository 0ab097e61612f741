// SPDX-License-Identifier: EPL-2.0

//go:build (linux && cgo) || windows || darwin

package beepaudio

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/voice"
)

// Available reports whether this build can open the speaker.
const Available = true

// resampleQuality is the beep.Resample quality used when a clip's rate
// differs from the speaker's.
const resampleQuality = 4

var (
	speakerMu   sync.Mutex
	speakerRate beep.SampleRate
)

// Backend creates voices that play through the beep speaker.
type Backend struct {
	rate beep.SampleRate
	log  *slog.Logger

	mtx  *sync.Mutex
	bufs map[*clip.Clip]*beep.Buffer
}

// NewBackend initializes the speaker at sampleRate the first time it is
// called. Later calls must ask for the same rate.
func NewBackend(sampleRate int, log *slog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}
	rate := beep.SampleRate(sampleRate)

	speakerMu.Lock()
	defer speakerMu.Unlock()

	switch speakerRate {
	case 0:
		if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
			return nil, fmt.Errorf("beep: speaker init: %w", err)
		}
		speakerRate = rate
	case rate:
	default:
		return nil, fmt.Errorf("beep: %w: have %d, want %d", ErrRateMismatch, speakerRate, rate)
	}

	return &Backend{
		rate: rate,
		log:  log,
		mtx:  &sync.Mutex{},
		bufs: make(map[*clip.Clip]*beep.Buffer),
	}, nil
}

// Factory satisfies voice.Factory.
func (b *Backend) Factory(kind voice.Kind, index int) (voice.Voice, error) {
	return &Voice{b: b, name: fmt.Sprintf("%s%d", kind, index), volume: 1}, nil
}

func (b *Backend) buffer(c *clip.Clip) *beep.Buffer {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	buf, ok := b.bufs[c]
	if !ok {
		buf = newBuffer(c)
		b.bufs[c] = buf
	}
	return buf
}

// Voice is one beep playback slot.
type Voice struct {
	b    *Backend
	name string

	clip   *clip.Clip
	seeker beep.StreamSeeker
	rate   beep.SampleRate
	gain   *effects.Gain
	ctrl   *beep.Ctrl

	// id numbers each Play; done holds the id of the last one that ended.
	// done is written from the speaker goroutine.
	id   uint64
	done atomic.Uint64

	volume  float64
	muted   bool
	loop    bool
	looping bool
}

var _ voice.Voice = (*Voice)(nil)

func (v *Voice) Play(c *clip.Clip) {
	v.Stop()
	if c == nil || c.Frames() == 0 {
		v.b.log.Debug("beep: nothing to play", "voice", v.name, "clip", c)
		return
	}

	buf := v.b.buffer(c)
	s := buf.Streamer(0, buf.Len())

	var st beep.Streamer = s
	if v.loop {
		st = beep.Loop(-1, s)
	}
	if r := buf.Format().SampleRate; r != v.b.rate {
		st = beep.Resample(resampleQuality, r, v.b.rate, st)
	}

	v.gain = &effects.Gain{Streamer: st, Gain: gain(v.volume, v.muted)}
	v.ctrl = &beep.Ctrl{Streamer: v.gain}
	v.clip, v.seeker, v.rate, v.looping = c, s, buf.Format().SampleRate, v.loop

	v.id++
	id := v.id
	speaker.Play(beep.Seq(v.ctrl, beep.Callback(func() {
		v.done.Store(id)
	})))
}

func (v *Voice) Stop() {
	if v.ctrl == nil {
		return
	}

	speaker.Lock()
	v.ctrl.Streamer = nil
	speaker.Unlock()

	v.done.Store(v.id)
	v.ctrl = nil
	v.gain = nil
}

func (v *Voice) IsPlaying() bool {
	return v.ctrl != nil && v.done.Load() != v.id
}

func (v *Voice) SetVolume(vol float64) {
	v.volume = vol
	v.apply()
}

func (v *Voice) Volume() float64 { return v.volume }

func (v *Voice) SetMute(m bool) {
	v.muted = m
	v.apply()
}

func (v *Voice) SetLoop(l bool) { v.loop = l }

func (v *Voice) apply() {
	if v.gain == nil {
		return
	}
	speaker.Lock()
	v.gain.Gain = gain(v.volume, v.muted)
	speaker.Unlock()
}

// Elapsed reports the clip length for a play that ran to its end and zero
// after Stop.
func (v *Voice) Elapsed() time.Duration {
	if v.ctrl == nil {
		return 0
	}
	finished := v.done.Load() == v.id

	speaker.Lock()
	defer speaker.Unlock()
	return position(v.seeker, v.rate, finished, v.clip.Duration)
}

func (v *Voice) Duration() time.Duration {
	if v.clip == nil {
		return 0
	}
	return v.clip.Duration
}

// Close stops the voice. The speaker itself stays open for other
// backends.
func (v *Voice) Close() error {
	v.Stop()
	return nil
}
