// SPDX-License-Identifier: EPL-2.0

//go:build (linux && cgo) || windows || darwin

package ebitenaudio

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/voice"
)

// Available reports whether this build can open an audio context.
const Available = true

// Backend creates voices that play through one audio.Context.
type Backend struct {
	ctx *audio.Context
	log *slog.Logger

	mtx *sync.Mutex
	pcm map[*clip.Clip][]byte
}

// NewBackend reuses the process audio context when the game already made
// one, otherwise it creates it at sampleRate.
func NewBackend(sampleRate int, log *slog.Logger) *Backend {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	return NewBackendWithContext(ctx, log)
}

func NewBackendWithContext(ctx *audio.Context, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	return &Backend{
		ctx: ctx,
		log: log,
		mtx: &sync.Mutex{},
		pcm: make(map[*clip.Clip][]byte),
	}
}

func (b *Backend) Context() *audio.Context { return b.ctx }

// Factory satisfies voice.Factory.
func (b *Backend) Factory(kind voice.Kind, index int) (voice.Voice, error) {
	return &Voice{b: b, name: fmt.Sprintf("%s%d", kind, index), volume: 1}, nil
}

func (b *Backend) bytes(c *clip.Clip) []byte {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	data, ok := b.pcm[c]
	if !ok {
		data = stereoPCM(c)
		b.pcm[c] = data
	}
	return data
}

// stream builds a fresh reader over c at the context rate.
func (b *Backend) stream(c *clip.Clip, loop bool) io.Reader {
	data := b.bytes(c)

	var src io.ReadSeeker = bytes.NewReader(data)
	size := int64(len(data))

	if rate := b.ctx.SampleRate(); c.SampleRate != rate {
		r := audio.Resample(src, size, c.SampleRate, rate)
		src, size = r, r.Length()
	}

	if loop {
		return audio.NewInfiniteLoop(src, size)
	}
	return src
}

// Voice is one Ebiten player slot.
type Voice struct {
	b    *Backend
	name string

	clip    *clip.Clip
	player  *audio.Player
	looping bool

	volume float64
	muted  bool
	loop   bool
}

var _ voice.Voice = (*Voice)(nil)

func (v *Voice) Play(c *clip.Clip) {
	v.Stop()
	if c == nil || c.Frames() == 0 {
		v.b.log.Debug("ebiten: nothing to play", "voice", v.name, "clip", c)
		return
	}

	p, err := v.b.ctx.NewPlayer(v.b.stream(c, v.loop))
	if err != nil {
		v.b.log.Warn("ebiten: new player", "voice", v.name, "clip", c.Name, "error", err)
		return
	}

	v.clip, v.player, v.looping = c, p, v.loop
	p.SetVolume(voice.Output(v.volume, v.muted))
	p.Play()
}

func (v *Voice) Stop() {
	if v.player == nil {
		return
	}

	v.player.Pause()
	if err := v.player.Close(); err != nil {
		v.b.log.Debug("ebiten: close player", "voice", v.name, "error", err)
	}
	v.player = nil
}

func (v *Voice) IsPlaying() bool {
	return v.player != nil && v.player.IsPlaying()
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
	if v.player != nil {
		v.player.SetVolume(voice.Output(v.volume, v.muted))
	}
}

func (v *Voice) Elapsed() time.Duration {
	if v.player == nil {
		return 0
	}
	return voice.Position(v.player.Position(), v.clip.Duration, v.looping)
}

func (v *Voice) Duration() time.Duration {
	if v.clip == nil {
		return 0
	}
	return v.clip.Duration
}

// Close releases the player. The audio context stays open.
func (v *Voice) Close() error {
	v.Stop()
	return nil
}
