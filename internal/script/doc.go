// SPDX-License-Identifier: EPL-2.0

// Package script replays a timeline of mixer commands.
//
// A script is YAML:
//
//	name: stage change
//	duration: 8s
//	steps:
//	  - {at: 0s, op: set_music, arg: 0}
//	  - {at: 500ms, op: play_effect, arg: 2}
//	  - {at: 3s, op: set_playlist, args: [1, 2]}
//	  - {at: 6s, op: mute, mute: true}
//
// Times accept Go duration strings; bare integers are milliseconds. Run
// applies each step when its time is reached and ticks the mixer between
// frames, either as fast as possible against simulated voices or in real
// time against an audio backend.
package script
