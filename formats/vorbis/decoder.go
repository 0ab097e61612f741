// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/jfreymuth/oggvorbis"
)

// floatReader is the slice of oggvorbis.Reader that stream reads from.
type floatReader interface {
	Read([]float32) (int, error)
}

type stream struct {
	ogg      floatReader
	rate     int
	channels int
	frames   int64
}

var (
	_ audio.Source = (*stream)(nil)
	_ audio.Sized  = (*stream)(nil)
)

func (s *stream) SampleRate() int { return s.rate }
func (s *stream) Channels() int   { return s.channels }
func (s *stream) Frames() int64   { return s.frames }
func (s *stream) Close() error    { return nil }

func (s *stream) BufSize() int {
	const chunk = 4096
	return chunk - chunk%s.channels
}

// ReadSamples decodes in place. oggvorbis wants room for whole frames, so
// a trailing partial frame of dst is left untouched.
func (s *stream) ReadSamples(dst []float32) (int, error) {
	dst = dst[:len(dst)-len(dst)%s.channels]
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.ogg.Read(dst)
	switch {
	case n == 0 && err == nil:
		return 0, io.EOF
	case err != nil && err != io.EOF:
		err = fmt.Errorf("vorbis: %w", err)
	}
	return n, err
}

// Decoder reads Ogg Vorbis. The frame count comes from the last granule
// position and is only known for seekable input.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	ogg, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbis, err)
	}
	if ogg.Channels() < 1 {
		return nil, audio.ErrNoChannels
	}

	return &stream{
		ogg:      ogg,
		rate:     ogg.SampleRate(),
		channels: ogg.Channels(),
		frames:   ogg.Length(),
	}, nil
}
