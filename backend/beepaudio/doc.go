// SPDX-License-Identifier: EPL-2.0

// Package beepaudio binds mixer voices to the speaker of
// github.com/gopxl/beep.
//
// Every voice is a beep.Ctrl wrapped around a gain stage and, when needed,
// a resampler, all mixed by the shared speaker. Decoded clips are kept as
// beep.Buffer values so replaying a clip costs no decoding.
//
// Audio output needs cgo on Linux. Builds without it get a Backend that
// fails with ErrUnavailable.
package beepaudio
