// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ik5/audmix/effect"
	"github.com/ik5/audmix/music"
	"github.com/ik5/audmix/voice"
)

// Silent and HardStop are the music ids for "fade to silence" and "cut
// immediately". Silent is also what the effect queries report when nothing
// plays.
const (
	Silent   = music.Silent
	HardStop = music.HardStop
)

// Manager drives one effect pool and one music channel pair. All methods
// run to completion under a single lock, so commands may come from another
// goroutine than the one calling Tick.
type Manager struct {
	mtx *sync.Mutex

	effects  *effect.Pool
	pair     *music.ChannelPair
	playlist *music.Sequencer
	voices   []voice.Voice

	muted  bool
	closed bool
	log    *slog.Logger
}

type options struct {
	log *slog.Logger
	now func() time.Time
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock sets the time source used to order effect voices.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New validates cfg and builds a Manager around voices created by factory:
// cfg.EffectVoices effect voices and two music voices.
func New(cfg Config, lib Library, factory voice.Factory, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, ErrNilFactory
	}

	o := options{log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager{mtx: &sync.Mutex{}, log: o.log}

	fx := make([]voice.Voice, cfg.EffectVoices)
	for i := range fx {
		v, err := factory(voice.Effect, i)
		if err != nil {
			return nil, m.abort(fmt.Errorf("effect voice %d: %w", i, err))
		}
		fx[i] = v
		m.voices = append(m.voices, v)
	}

	var mv [2]voice.Voice
	for i := range mv {
		v, err := factory(voice.Music, i)
		if err != nil {
			return nil, m.abort(fmt.Errorf("music voice %d: %w", i, err))
		}
		mv[i] = v
		m.voices = append(m.voices, v)
	}

	timing := music.Timing{FadeIn: cfg.FadeIn, FadeOut: cfg.FadeOut, Interval: cfg.Interval}

	m.effects = effect.NewPool(lib.Effects, fx, cfg.EffectVolume,
		effect.WithClock(o.now), effect.WithLogger(o.log.With("component", "effect")))
	m.pair = music.NewChannelPair(lib.Music, mv, timing, cfg.MusicVolume,
		music.WithLogger(o.log.With("component", "music")))
	m.playlist = music.NewSequencer(m.pair, o.log.With("component", "playlist"))

	m.log.Debug("mixer ready",
		"effects", len(lib.Effects), "music", len(lib.Music), "voices", cfg.EffectVoices)

	return m, nil
}

// abort closes the voices created so far and returns err joined with any
// close failures.
func (m *Manager) abort(err error) error {
	return errors.Join(err, closeVoices(m.voices))
}

func (m *Manager) lock() func() {
	m.mtx.Lock()
	return m.mtx.Unlock
}

// PlayEffect starts effect index. An index outside the effect list stops
// every effect.
func (m *Manager) PlayEffect(index int) {
	defer m.lock()()
	if m.closed {
		return
	}
	m.effects.Play(index)
}

// StopAndPlayEffect restarts effect index: the voice playing it longest is
// stopped before a new one starts.
func (m *Manager) StopAndPlayEffect(index int) {
	defer m.lock()()
	if m.closed {
		return
	}
	m.effects.StopOldest(index)
	m.effects.Play(index)
}

// PlayEffectIfNotPlaying starts effect index unless it already sounds.
func (m *Manager) PlayEffectIfNotPlaying(index int) {
	defer m.lock()()
	if m.closed {
		return
	}
	m.effects.PlayIfAbsent(index)
}

// StopEffect stops the voice that has played effect index the longest. An
// index outside the effect list stops every effect.
func (m *Manager) StopEffect(index int) {
	defer m.lock()()
	if m.closed {
		return
	}
	if index < 0 || index >= m.effects.Clips() {
		m.effects.StopAll()
		return
	}
	m.effects.StopOldest(index)
}

// SetEffectVolume sets the effect gain; values outside [0, 1] are ignored.
func (m *Manager) SetEffectVolume(v float64) {
	defer m.lock()()
	if m.closed {
		return
	}
	m.effects.SetVolume(v)
}

// SetMusic crossfades to track. Silent or an unknown id fades the music
// out, HardStop cuts it. Any playlist is dropped first.
func (m *Manager) SetMusic(track int) {
	defer m.lock()()
	if m.closed {
		return
	}
	if m.playlist.Active() {
		m.playlist.Clear()
	}
	m.pair.SetTrack(track)
}

// SetPlaylist plays tracks in order, wrapping at the end. An empty list
// drops the playlist and fades the music out.
func (m *Manager) SetPlaylist(tracks []int) {
	defer m.lock()()
	if m.closed {
		return
	}
	m.playlist.Set(tracks)
}

// PlaylistStep moves n entries through the playlist and returns the new
// position, or -1 when no playlist is loaded.
func (m *Manager) PlaylistStep(n int) int {
	defer m.lock()()
	if m.closed {
		return -1
	}
	return m.playlist.Step(n)
}

// SetMusicVolume sets the gain of a fully faded-in track; values outside
// [0, 1] are ignored.
func (m *Manager) SetMusicVolume(v float64) {
	defer m.lock()()
	if m.closed {
		return
	}
	m.pair.SetVolume(v)
}

// SetMusicTempVolume sets a multiplier on the music volume, for ducking.
func (m *Manager) SetMusicTempVolume(v float64) {
	defer m.lock()()
	if m.closed {
		return
	}
	m.pair.SetCoefficient(v)
}

// SetMute silences every voice without changing any stored volume.
func (m *Manager) SetMute(mute bool) {
	defer m.lock()()
	if m.closed {
		return
	}
	m.muted = mute
	m.effects.SetMute(mute)
	m.pair.SetMute(mute)
}

// Tick advances the music by dt and lets the playlist move on when the
// current track is ending.
func (m *Manager) Tick(dt time.Duration) {
	defer m.lock()()
	if m.closed {
		return
	}
	m.pair.Update(dt)
	m.playlist.AdvanceIfEnding()
}

func (m *Manager) IsPlayingEffect(index int) bool {
	defer m.lock()()
	return m.effects.IsPlaying(index)
}

// ActiveEffects lists the distinct effects sounding, ascending.
func (m *Manager) ActiveEffects() []int {
	defer m.lock()()
	return m.effects.Active()
}

// CurrentEffect is the most recently started effect still sounding, or
// Silent.
func (m *Manager) CurrentEffect() int {
	defer m.lock()()
	return m.effects.Current()
}

func (m *Manager) IsPlayingMusic() bool {
	defer m.lock()()
	return m.pair.IsPlaying()
}

// ActiveMusic lists the tracks held by busy music channels, the main one
// first.
func (m *Manager) ActiveMusic() []int {
	defer m.lock()()
	return m.pair.Active()
}

// CurrentMusic is the requested track, or Silent.
func (m *Manager) CurrentMusic() int {
	defer m.lock()()
	return m.pair.Current()
}

func (m *Manager) EffectCount() int { return m.effects.Clips() }
func (m *Manager) MusicCount() int  { return m.pair.Tracks() }

func (m *Manager) EffectVolume() float64 {
	defer m.lock()()
	return m.effects.Volume()
}

func (m *Manager) MusicVolume() float64 {
	defer m.lock()()
	return m.pair.Volume()
}

func (m *Manager) MusicTempVolume() float64 {
	defer m.lock()()
	return m.pair.Coefficient()
}

func (m *Manager) Muted() bool {
	defer m.lock()()
	return m.muted
}

// Playlist is a copy of the active playlist, nil without one.
func (m *Manager) Playlist() []int {
	defer m.lock()()
	return m.playlist.Tracks()
}

// PlaylistIndex is the position of the playing entry, or -1.
func (m *Manager) PlaylistIndex() int {
	defer m.lock()()
	return m.playlist.Index()
}

// MusicState reports the state of music channel ch. Channels other than 0
// and 1 read as stopped.
func (m *Manager) MusicState(ch int) music.Status {
	if ch < 0 || ch > 1 {
		return music.Stop
	}
	defer m.lock()()
	return m.pair.Channel(ch).State
}

// Snapshot is a point in time view of the mixer.
type Snapshot struct {
	Effects       []int
	CurrentEffect int
	Music         [2]music.ChannelInfo
	Playlist      []int
	PlaylistIndex int

	EffectVolume    float64
	MusicVolume     float64
	MusicTempVolume float64
	Muted           bool
}

func (m *Manager) Snapshot() Snapshot {
	defer m.lock()()
	return Snapshot{
		Effects:         m.effects.Active(),
		CurrentEffect:   m.effects.Current(),
		Music:           [2]music.ChannelInfo{m.pair.Channel(0), m.pair.Channel(1)},
		Playlist:        m.playlist.Tracks(),
		PlaylistIndex:   m.playlist.Index(),
		EffectVolume:    m.effects.Volume(),
		MusicVolume:     m.pair.Volume(),
		MusicTempVolume: m.pair.Coefficient(),
		Muted:           m.muted,
	}
}

// Close cuts the music, stops every effect and closes the voices that
// hold resources. Later commands do nothing.
func (m *Manager) Close() error {
	defer m.lock()()
	if m.closed {
		return ErrClosed
	}
	m.closed = true

	m.playlist.Clear()
	m.pair.SetTrack(HardStop)
	m.effects.Silence()

	m.log.Debug("mixer closed")
	return closeVoices(m.voices)
}

func closeVoices(voices []voice.Voice) error {
	var errs []error
	for _, v := range voices {
		c, ok := v.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
