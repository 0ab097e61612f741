// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audmix/utils"
)

// IntReader is the integer PCM surface shared by the go-audio WAV and AIFF
// decoders.
type IntReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Sized is implemented by sources that know their length up front.
type Sized interface {
	// Frames is the total frame count, or a value <= 0 when unknown.
	Frames() int64
}

const defaultChunk = 4096

// IntSource turns an IntReader into a float Source.
type IntSource struct {
	dec      IntReader
	rate     int
	channels int
	bitDepth int
	frames   int64

	chunk *goaudio.IntBuffer
}

var (
	_ Source = (*IntSource)(nil)
	_ Sized  = (*IntSource)(nil)
)

// NewIntSource reads the layout from dec. frames may be zero when the
// container does not record it.
func NewIntSource(dec IntReader, bitDepth int, frames int64) (*IntSource, error) {
	f := dec.Format()
	if f == nil || f.NumChannels < 1 {
		return nil, ErrNoChannels
	}
	return &IntSource{
		dec:      dec,
		rate:     f.SampleRate,
		channels: f.NumChannels,
		bitDepth: bitDepth,
		frames:   frames,
	}, nil
}

func (s *IntSource) SampleRate() int { return s.rate }
func (s *IntSource) Channels() int   { return s.channels }
func (s *IntSource) BitDepth() int   { return s.bitDepth }
func (s *IntSource) Frames() int64   { return s.frames }
func (s *IntSource) Close() error    { return nil }

func (s *IntSource) BufSize() int {
	if s.chunk == nil {
		return defaultChunk
	}
	return cap(s.chunk.Data)
}

func (s *IntSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.chunk == nil || cap(s.chunk.Data) < len(dst) {
		s.chunk = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.dec.Format(),
			SourceBitDepth: s.bitDepth,
		}
	}
	s.chunk.Data = s.chunk.Data[:len(dst)]

	got, err := s.dec.PCMBuffer(s.chunk)
	switch {
	case got == 0 && err == nil:
		return 0, io.EOF
	case got == 0:
		return 0, fmt.Errorf("pcm: %w", err)
	}

	n := utils.IntsToFloat32(dst, s.chunk.Data[:got], s.bitDepth)
	if err == nil && n < len(dst) {
		err = io.EOF
	}
	return n, err
}

// Seekable returns r itself when it can seek, otherwise an in-memory copy.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
