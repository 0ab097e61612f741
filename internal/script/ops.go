// SPDX-License-Identifier: EPL-2.0

package script

import (
	"fmt"
	"time"
)

// Op names a mixer command.
type Op string

const (
	OpPlayEffect         Op = "play_effect"
	OpStopAndPlayEffect  Op = "stop_and_play_effect"
	OpPlayEffectIfAbsent Op = "play_effect_if_absent"
	OpStopEffect         Op = "stop_effect"
	OpEffectVolume       Op = "effect_volume"
	OpSetMusic           Op = "set_music"
	OpSetPlaylist        Op = "set_playlist"
	OpPlaylistStep       Op = "playlist_step"
	OpMusicVolume        Op = "music_volume"
	OpMusicTempVolume    Op = "music_temp_volume"
	OpMute               Op = "mute"
)

// Commander is the mixer surface a script drives. *audmix.Manager
// implements it.
type Commander interface {
	PlayEffect(index int)
	StopAndPlayEffect(index int)
	PlayEffectIfNotPlaying(index int)
	StopEffect(index int)
	SetEffectVolume(v float64)

	SetMusic(track int)
	SetPlaylist(tracks []int)
	PlaylistStep(n int) int
	SetMusicVolume(v float64)
	SetMusicTempVolume(v float64)

	SetMute(mute bool)
	Tick(dt time.Duration)
}

var handlers = map[Op]func(Commander, Step){
	OpPlayEffect:         func(c Commander, s Step) { c.PlayEffect(s.Arg) },
	OpStopAndPlayEffect:  func(c Commander, s Step) { c.StopAndPlayEffect(s.Arg) },
	OpPlayEffectIfAbsent: func(c Commander, s Step) { c.PlayEffectIfNotPlaying(s.Arg) },
	OpStopEffect:         func(c Commander, s Step) { c.StopEffect(s.Arg) },
	OpEffectVolume:       func(c Commander, s Step) { c.SetEffectVolume(s.Value) },
	OpSetMusic:           func(c Commander, s Step) { c.SetMusic(s.Arg) },
	OpSetPlaylist:        func(c Commander, s Step) { c.SetPlaylist(s.Args) },
	OpPlaylistStep:       func(c Commander, s Step) { c.PlaylistStep(s.Arg) },
	OpMusicVolume:        func(c Commander, s Step) { c.SetMusicVolume(s.Value) },
	OpMusicTempVolume:    func(c Commander, s Step) { c.SetMusicTempVolume(s.Value) },
	OpMute:               func(c Commander, s Step) { c.SetMute(s.Mute) },
}

// Apply issues s to c.
func Apply(c Commander, s Step) error {
	h, ok := handlers[s.Op]
	if !ok {
		return fmt.Errorf("script: %w %q", ErrUnknownOp, s.Op)
	}
	h(c, s)
	return nil
}
