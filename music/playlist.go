// SPDX-License-Identifier: EPL-2.0

package music

import (
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"
)

// Sequencer plays an ordered list of tracks through a ChannelPair, moving
// to the next entry when the current one is about to end.
type Sequencer struct {
	pair   *ChannelPair
	tracks []int
	index  int
	last   position
	log    *slog.Logger
}

// position is where the main channel was on the previous check.
type position struct {
	channel int
	track   int
	elapsed time.Duration
	ok      bool
}

func NewSequencer(pair *ChannelPair, log *slog.Logger) *Sequencer {
	if log == nil {
		log = slog.Default()
	}
	return &Sequencer{pair: pair, log: log}
}

// Active reports whether a playlist is loaded.
func (s *Sequencer) Active() bool { return len(s.tracks) > 0 }

// Index is the position of the current entry, or -1 without a playlist.
func (s *Sequencer) Index() int {
	if !s.Active() {
		return -1
	}
	return s.index
}

// Tracks returns a copy of the loaded list.
func (s *Sequencer) Tracks() []int { return slices.Clone(s.tracks) }

// Set loads tracks as the playlist. An empty list drops any playlist and
// fades out whatever music plays, restoring per-track looping. Loading the
// list that is already playing changes nothing. Playback resumes at the
// earliest entry whose track is already sounding, so switching between lists
// that share a track does not interrupt it.
func (s *Sequencer) Set(tracks []int) {
	if len(tracks) == 0 {
		s.Clear()
		s.pair.SetTrack(Silent)
		return
	}

	if slices.Equal(tracks, s.tracks) && s.pair.IsPlaying() {
		return
	}

	s.tracks = slices.Clone(tracks)
	s.index = s.resumeIndex()
	s.last = position{}
	s.pair.SetLoop(false)

	s.log.Debug("playlist set", "tracks", s.tracks, "index", s.index)
	s.pair.SetTrack(s.tracks[s.index])
}

// Clear forgets the playlist without touching what plays and re-enables
// per-track looping.
func (s *Sequencer) Clear() {
	s.tracks = nil
	s.index = 0
	s.last = position{}
	s.pair.SetLoop(true)
}

func (s *Sequencer) resumeIndex() int {
	active := s.pair.Active()
	for i, t := range s.tracks {
		if lo.Contains(active, t) {
			return i
		}
	}
	return 0
}

// Step moves n entries, wrapping in both directions, and returns the new
// index. Without a playlist it returns -1.
func (s *Sequencer) Step(n int) int {
	if !s.Active() {
		return -1
	}

	s.index = wrap(s.index+n, len(s.tracks))
	s.last = position{}
	s.pair.SetTrack(s.tracks[s.index])
	return s.index
}

// AdvanceIfEnding moves to the next entry once the main channel is playing
// and has no more than the fade-out time left, so the fade-out finishes as
// the clip does. A voice still looping from before the playlist was set
// counts as ending when its position wraps. It reports whether it advanced.
func (s *Sequencer) AdvanceIfEnding() bool {
	if !s.Active() || s.pair.Channel(s.pair.Main()).State != Playing {
		return false
	}

	wrapped := s.wrapped()
	left, ok := s.pair.MainTimeLeft()
	if !wrapped && (!ok || left > s.pair.Timing().FadeOut) {
		return false
	}

	s.last = position{}
	current := s.tracks[s.index]
	s.index = wrap(s.index+1, len(s.tracks))
	next := s.tracks[s.index]

	s.log.Debug("playlist advance", "from", current, "to", next, "index", s.index)

	// The same track again has to start over on the other channel.
	if next == current {
		s.pair.Requeue(next)
	} else {
		s.pair.SetTrack(next)
	}
	return true
}

// wrapped records the main channel's position and reports whether it went
// backwards since the previous call on the same channel and track.
func (s *Sequencer) wrapped() bool {
	main := s.pair.Main()
	now := position{
		channel: main,
		track:   s.pair.Channel(main).Track,
		elapsed: s.pair.MainElapsed(),
		ok:      true,
	}
	prev := s.last
	s.last = now

	return prev.ok && prev.channel == now.channel && prev.track == now.track &&
		now.elapsed < prev.elapsed
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
