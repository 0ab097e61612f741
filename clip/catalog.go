// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
)

// DefaultRegistry knows every format shipped with the module.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{}, "wav", "wave")
	reg.Register("mp3", mp3.Decoder{}, "mp3")
	reg.Register("ogg", vorbis.Decoder{}, "ogg", "oga")
	reg.Register("aiff", aiff.Decoder{}, "aif", "aiff")
	return reg
}

// Catalog turns files into clips using a decoder registry.
type Catalog struct {
	reg *audio.Registry
}

func NewCatalog(reg *audio.Registry) *Catalog {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Catalog{reg: reg}
}

// Load decodes the file at path. The clip is named after the file.
func (c *Catalog) Load(path string) (*Clip, error) {
	format, dec, err := c.reg.ForPath(path)
	if err != nil {
		return nil, fmt.Errorf("clip: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("clip: open %s: %w", path, err)
	}
	defer f.Close()

	cl, err := decode(dec, f)
	if err != nil {
		return nil, fmt.Errorf("clip: decode %s: %w", path, err)
	}

	cl.Name = filepath.Base(path)
	cl.Format = format
	return cl, nil
}

// Decode reads a clip of the given registered format from r.
func (c *Catalog) Decode(name, format string, r io.Reader) (*Clip, error) {
	dec, ok := c.reg.Get(format)
	if !ok {
		return nil, fmt.Errorf("clip: %w: %q", audio.ErrUnknownFormat, format)
	}

	cl, err := decode(dec, r)
	if err != nil {
		return nil, fmt.Errorf("clip: decode %s: %w", name, err)
	}

	cl.Name = name
	cl.Format = format
	return cl, nil
}

// LoadAll loads paths in order and stops at the first failure.
func (c *Catalog) LoadAll(paths []string) ([]*Clip, error) {
	out := make([]*Clip, 0, len(paths))
	for _, p := range paths {
		cl, err := c.Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, cl)
	}
	return out, nil
}

func decode(dec audio.Decoder, r io.Reader) (*Clip, error) {
	src, err := dec.Decode(r)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	samples, err := audio.ReadAll(src)
	if err != nil {
		return nil, err
	}

	return FromPCM("", src.SampleRate(), src.Channels(), samples)
}
