// SPDX-License-Identifier: EPL-2.0

// Package vorbis registers github.com/jfreymuth/oggvorbis with the audio
// registry.
//
// Vorbis already decodes to float, so samples reach the clip catalog
// without conversion and keep the file's channel order. Files with more
// than two channels are folded to stereo later, by the playback backend.
package vorbis
