// SPDX-License-Identifier: EPL-2.0

package script

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Duration reads either a Go duration string or an integer number of
// milliseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}

	if ms, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	v, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Step is one command on the timeline.
type Step struct {
	At    Duration `yaml:"at"`
	Op    Op       `yaml:"op"`
	Arg   int      `yaml:"arg"`
	Args  []int    `yaml:"args"`
	Value float64  `yaml:"value"`
	Mute  bool     `yaml:"mute"`
}

func (s Step) String() string {
	switch s.Op {
	case OpSetPlaylist:
		return fmt.Sprintf("%s %v", s.Op, s.Args)
	case OpEffectVolume, OpMusicVolume, OpMusicTempVolume:
		return fmt.Sprintf("%s %g", s.Op, s.Value)
	case OpMute:
		return fmt.Sprintf("%s %t", s.Op, s.Mute)
	default:
		return fmt.Sprintf("%s %d", s.Op, s.Arg)
	}
}

type Script struct {
	Name string `yaml:"name"`
	// Duration is how long to run. The run always reaches the last step.
	Duration Duration `yaml:"duration"`
	Steps    []Step   `yaml:"steps"`
}

// End is when a run of s stops.
func (s Script) End() time.Duration {
	end := s.Duration.Std()
	if n := len(s.Steps); n > 0 {
		end = max(end, s.Steps[n-1].At.Std())
	}
	return end
}

// Parse decodes and checks a script. Steps are ordered by time; steps
// sharing a time keep their file order.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("script: unmarshal: %w", err)
	}

	for i, st := range s.Steps {
		if _, ok := handlers[st.Op]; !ok {
			return Script{}, fmt.Errorf("script: step %d: %w %q (known: %v)", i, ErrUnknownOp, st.Op, Ops())
		}
		if st.At < 0 {
			return Script{}, fmt.Errorf("script: step %d: %w", i, ErrNegativeTime)
		}
	}

	slices.SortStableFunc(s.Steps, func(a, b Step) int {
		return cmp.Compare(a.At, b.At)
	})
	return s, nil
}

func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("script: read %s: %w", path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Ops lists the known op names, sorted.
func Ops() []Op {
	ops := lo.Keys(handlers)
	slices.Sort(ops)
	return ops
}
