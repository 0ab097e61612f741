// SPDX-License-Identifier: EPL-2.0

// Package voice defines the playback slot the mixer drives.
//
// The mixer never touches audio hardware itself. It asks a Factory for a
// fixed number of voices at construction and from then on only calls the
// Voice methods. Package sim provides a deterministic implementation for
// tests and offline runs; the backend packages bind voices to real audio
// output.
package voice
