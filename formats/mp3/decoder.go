// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

const (
	// go-mp3 always emits interleaved 16 bit stereo, mono files included.
	channels      = 2
	bytesPerFrame = channels * 2
)

// pcm16 is the slice of gomp3.Decoder that stream reads from.
type pcm16 interface {
	io.Reader
	SampleRate() int
}

type stream struct {
	pcm    pcm16
	rate   int
	frames int64
	raw    []byte
}

var (
	_ audio.Source = (*stream)(nil)
	_ audio.Sized  = (*stream)(nil)
)

func (s *stream) SampleRate() int { return s.rate }
func (s *stream) Channels() int   { return channels }
func (s *stream) Frames() int64   { return s.frames }
func (s *stream) BufSize() int    { return cap(s.raw) / 2 }
func (s *stream) Close() error    { return nil }

func (s *stream) ReadSamples(dst []float32) (int, error) {
	want := 2 * len(dst)
	if cap(s.raw) < want {
		s.raw = make([]byte, want)
	}
	s.raw = s.raw[:want]

	got, err := io.ReadFull(s.pcm, s.raw)
	switch {
	case err == io.ErrUnexpectedEOF:
		err = io.EOF
	case err != nil && err != io.EOF:
		err = fmt.Errorf("mp3: %w", err)
	}
	if got == 0 {
		return 0, err
	}
	return utils.Int16LEToFloat32(dst, s.raw[:got]), err
}

// Decoder reads MPEG-1/2 Layer III. Lengths are only known when the input
// can seek.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3, err)
	}

	var frames int64
	if n := dec.Length(); n > 0 {
		frames = n / bytesPerFrame
	}

	return &stream{
		pcm:    dec,
		rate:   dec.SampleRate(),
		frames: frames,
		raw:    make([]byte, 4096*bytesPerFrame/2),
	}, nil
}
