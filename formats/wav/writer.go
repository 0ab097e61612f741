// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

// canonicalHeader is the 44 byte RIFF layout with a single fmt and data
// chunk. Fields are written in declaration order.
type canonicalHeader struct {
	RIFF       [4]byte
	RIFFSize   uint32
	WAVE       [4]byte
	Fmt        [4]byte
	FmtSize    uint32
	Format     uint16
	Channels   uint16
	SampleRate uint32
	ByteRate   uint32
	BlockAlign uint16
	Bits       uint16
	Data       [4]byte
	DataSize   uint32
}

const headerSize = 44

// writeChunk bounds how many samples go through one binary.Write.
const writeChunk = 8192

func newHeader(sampleRate, channels, samples int) canonicalHeader {
	const bytesPerSample = 2

	data := uint32(samples * bytesPerSample)
	block := uint16(channels * bytesPerSample)

	return canonicalHeader{
		RIFF:       [4]byte{'R', 'I', 'F', 'F'},
		RIFFSize:   headerSize - 8 + data,
		WAVE:       [4]byte{'W', 'A', 'V', 'E'},
		Fmt:        [4]byte{'f', 'm', 't', ' '},
		FmtSize:    16,
		Format:     wavePCM,
		Channels:   uint16(channels),
		SampleRate: uint32(sampleRate),
		ByteRate:   uint32(sampleRate) * uint32(block),
		BlockAlign: block,
		Bits:       8 * bytesPerSample,
		Data:       [4]byte{'d', 'a', 't', 'a'},
		DataSize:   data,
	}
}

// WriteWAV16 writes interleaved 16 bit samples to w. Unlike go-audio's
// encoder it needs no io.Seeker, so it can target a bytes.Buffer.
// len(samples) must be a whole number of frames.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels < 1 || len(samples)%channels != 0 {
		return ErrInvalidChannels
	}

	if err := binary.Write(w, binary.LittleEndian, newHeader(sampleRate, channels, len(samples))); err != nil {
		return fmt.Errorf("wav: write header: %w", err)
	}

	for rest := samples; len(rest) > 0; {
		n := min(len(rest), writeChunk)
		if err := binary.Write(w, binary.LittleEndian, rest[:n]); err != nil {
			return fmt.Errorf("wav: write samples: %w", err)
		}
		rest = rest[n:]
	}
	return nil
}
