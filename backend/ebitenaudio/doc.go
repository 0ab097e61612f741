// SPDX-License-Identifier: EPL-2.0

// Package ebitenaudio binds mixer voices to Ebiten's audio package, so a
// game built on Ebiten can hand the mixer its own audio.Context.
//
// Each Play creates an audio.Player over the clip's PCM, resampled to the
// context rate and wrapped in an audio.InfiniteLoop when looping is on.
package ebitenaudio
