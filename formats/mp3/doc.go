// SPDX-License-Identifier: EPL-2.0

// Package mp3 registers github.com/hajimehoshi/go-mp3 with the audio
// registry. Output is always stereo at the file's own rate; mono input is
// duplicated by the decoder itself.
//
// Music tracks are usually mp3, so the frame count matters for the
// catalog. go-mp3 can only compute it from a seekable reader such as an
// *os.File.
package mp3
