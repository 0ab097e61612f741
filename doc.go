// SPDX-License-Identifier: EPL-2.0

// Package audmix coordinates sound effects and background music for a game
// or any other frame driven program.
//
// A Manager owns a fixed pool of effect voices and a pair of music voices.
// It never renders audio itself: it decides which voice plays which clip,
// at what volume, and when one music track hands over to the next. The
// voices are supplied by a voice.Factory, so the same Manager drives the
// Ebiten or Beep backends as well as the simulated voices used in tests.
//
// # Quick Start
//
//	cfg, _ := audmix.LoadConfig("mixer.yaml")
//	lib, _ := audmix.LoadLibrary(nil, cfg)
//	m, _ := audmix.New(cfg, lib, ebitenaudio.NewBackend(44100, nil).Factory)
//	defer m.Close()
//
//	m.SetMusic(0)
//	m.PlayEffect(2)
//
//	// once per frame
//	m.Tick(dt)
//
// # Effects
//
// PlayEffect starts a clip on an idle voice. When every voice is busy the
// voice that started earliest is taken over. An id outside the effect list
// stops every effect.
//
// # Music
//
// SetMusic fades the current track out, waits for the configured interval
// and fades the new one in. A negative interval overlaps the two fades.
// SetPlaylist plays a list of tracks in order, moving on as each one nears
// its end.
//
// # Configuration
//
// Config is read from YAML; durations use Go syntax:
//
//	effect_voices: 5
//	effect_volume: 0.5
//	music_volume: 0.5
//	fade_out: 3s
//	interval: -1s
//	effects: [assets/jump.wav, assets/coin.ogg]
//	music: [assets/stage1.mp3, assets/stage2.ogg]
//
// See the music and effect subpackages for the underlying state machines.
package audmix
