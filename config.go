// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes a mixer and the assets it plays.
type Config struct {
	// EffectVoices is how many effects may sound at once.
	EffectVoices int     `yaml:"effect_voices"`
	EffectVolume float64 `yaml:"effect_volume"`
	MusicVolume  float64 `yaml:"music_volume"`

	FadeIn  time.Duration `yaml:"fade_in"`
	FadeOut time.Duration `yaml:"fade_out"`
	// Interval is the silence between two tracks. Negative values overlap
	// the outgoing fade-out with the incoming fade-in.
	Interval time.Duration `yaml:"interval"`

	// Effects and Music are asset paths; a clip's index in its list is
	// the id used by the play commands.
	Effects []string `yaml:"effects"`
	Music   []string `yaml:"music"`
}

func DefaultConfig() Config {
	return Config{
		EffectVoices: 5,
		EffectVolume: 0.5,
		MusicVolume:  0.5,
		FadeOut:      3 * time.Second,
	}
}

// ParseConfig decodes YAML over DefaultConfig, so omitted keys keep their
// defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.EffectVoices < 1 {
		return fmt.Errorf("%w: effect_voices = %d: %w", ErrInvalidConfig, c.EffectVoices, ErrNoEffectVoices)
	}
	if c.EffectVolume < 0 || c.EffectVolume > 1 {
		return fmt.Errorf("%w: effect_volume %v outside [0, 1]", ErrInvalidConfig, c.EffectVolume)
	}
	if c.MusicVolume < 0 || c.MusicVolume > 1 {
		return fmt.Errorf("%w: music_volume %v outside [0, 1]", ErrInvalidConfig, c.MusicVolume)
	}
	return nil
}
