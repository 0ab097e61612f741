// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
// Each format may also be reached by one or more file extensions.
type Registry struct {
	codecs map[string]Decoder
	exts   map[string]string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		exts:   make(map[string]string),
		mtx:    &sync.Mutex{},
	}
}

// Register binds format to d. Extensions are matched case insensitively
// and may be given with or without the leading dot.
func (r *Registry) Register(format string, d Decoder, exts ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
	for _, ext := range exts {
		r.exts[normalizeExt(ext)] = format
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// ForPath resolves the decoder for a file name by its extension.
func (r *Registry) ForPath(path string) (string, Decoder, error) {
	ext := normalizeExt(filepath.Ext(path))

	r.mtx.Lock()
	defer r.mtx.Unlock()

	format, ok := r.exts[ext]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}

	return format, r.codecs[format], nil
}

// Formats lists the registered format keys.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	return out
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// maxPrealloc caps the capacity ReadAll reserves from a Sized hint.
const maxPrealloc = 1 << 26

// ReadAll decodes src to the end and returns its interleaved samples. src
// is left open. Sized sources get their buffer reserved up front.
func ReadAll(src Source) ([]float32, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, ErrNoChannels
	}

	var out []float32
	if sz, ok := src.(Sized); ok {
		if want := sz.Frames() * int64(channels); want > 0 && want <= maxPrealloc {
			out = make([]float32, 0, want)
		}
	}

	chunk := src.BufSize()
	if chunk < channels {
		chunk = defaultChunk
	}
	buf := make([]float32, chunk-chunk%channels)

	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		switch {
		case errors.Is(err, io.EOF):
			return out, nil
		case err != nil:
			return out, fmt.Errorf("read samples: %w", err)
		case n == 0:
			return out, nil
		}
	}
}
