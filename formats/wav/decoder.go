// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/audmix/audio"
)

// wavePCM is the WAVE_FORMAT_PCM tag of the fmt chunk.
const wavePCM = 1

// Decoder reads integer PCM WAV data at 16, 24 or 32 bits.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := audio.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("wav: buffer input: %w", err)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWAV
	}
	if dec.WavAudioFormat != wavePCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrNotPCM, dec.WavAudioFormat)
	}

	depth := int(dec.BitDepth)
	switch depth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrBitDepth, depth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWAV, err)
	}

	var frames int64
	if block := int64(dec.NumChans) * int64(depth/8); block > 0 {
		frames = dec.PCMLen() / block
	}

	return audio.NewIntSource(dec, depth, frames)
}
