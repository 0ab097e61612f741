// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"testing"

	"github.com/ik5/audmix/internal/audiotest"
)

type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(r io.Reader) (Source, error) {
	return audiotest.NewSilentSource(44100, 2, 100), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "wav"}

	registry.Register("wav", decoder)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}

	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}
}

func TestRegistry_GetNonExistent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	if _, ok := registry.Get("nonexistent"); ok {
		t.Error("Registry.Get() returned ok=true for non-existent format")
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	wavDecoder := &mockDecoder{name: "wav"}
	oggDecoder := &mockDecoder{name: "ogg"}

	registry.Register("wav", wavDecoder, ".wav", "wave")
	registry.Register("ogg", oggDecoder, "ogg")

	tests := []struct {
		path       string
		wantFormat string
		want       Decoder
		wantErr    error
	}{
		{"sfx/jump.wav", "wav", wavDecoder, nil},
		{"SFX/JUMP.WAV", "wav", wavDecoder, nil},
		{"long.wave", "wav", wavDecoder, nil},
		{"music/theme.ogg", "ogg", oggDecoder, nil},
		{"music/theme.flac", "", nil, ErrUnknownFormat},
		{"noext", "", nil, ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			format, got, err := registry.ForPath(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ForPath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
			if format != tt.wantFormat {
				t.Errorf("ForPath(%q) format = %q, want %q", tt.path, format, tt.wantFormat)
			}
			if got != tt.want {
				t.Errorf("ForPath(%q) returned wrong decoder", tt.path)
			}
		})
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder1 := &mockDecoder{name: "first"}
	decoder2 := &mockDecoder{name: "second"}

	registry.Register("wav", decoder1, "wav")
	registry.Register("wav", decoder2)

	_, got, err := registry.ForPath("a.wav")
	if err != nil {
		t.Fatalf("ForPath() error = %v", err)
	}

	if got != decoder2 {
		t.Error("ForPath() did not return the overwritten decoder")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "test"}

	done := make(chan bool)
	for range 10 {
		go func() {
			registry.Register("format", decoder, "fmt")
			done <- true
		}()
	}

	for range 10 {
		go func() {
			_, _, _ = registry.ForPath("x.fmt")
			done <- true
		}()
	}

	for range 20 {
		<-done
	}

	if got, ok := registry.Get("format"); !ok || got != decoder {
		t.Error("Registry returned wrong decoder after concurrent operations")
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{})
	registry.Register("mp3", &mockDecoder{})

	if got := len(registry.Formats()); got != 2 {
		t.Errorf("len(Formats()) = %d, want 2", got)
	}
}

func TestReadAll(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(8000, 2, 5000, 0.25)

	got, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if len(got) != 10000 {
		t.Fatalf("len = %d, want 10000", len(got))
	}

	for i, v := range got {
		if v != 0.25 {
			t.Fatalf("sample %d = %v, want 0.25", i, v)
		}
	}
}

func TestReadAll_ReservesSizedSources(t *testing.T) {
	t.Parallel()

	got, err := ReadAll(audiotest.NewSineSource(8000, 1, 3000, 440))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != 3000 || cap(got) != 3000 {
		t.Errorf("len, cap = %d, %d, want 3000, 3000", len(got), cap(got))
	}
}

func TestReadAll_NoChannels(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 0, 10)

	if _, err := ReadAll(src); !errors.Is(err, ErrNoChannels) {
		t.Errorf("ReadAll() error = %v, want ErrNoChannels", err)
	}
}

type failingSource struct {
	Source
}

func (failingSource) Channels() int { return 1 }
func (failingSource) BufSize() int  { return 16 }
func (failingSource) ReadSamples([]float32) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestReadAll_PropagatesErrors(t *testing.T) {
	t.Parallel()

	if _, err := ReadAll(failingSource{}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadAll() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func BenchmarkRegistry_ForPath(b *testing.B) {
	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{}, "wav")

	b.ReportAllocs()

	for b.Loop() {
		_, _, _ = registry.ForPath("sound.wav")
	}
}
