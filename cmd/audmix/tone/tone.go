// SPDX-License-Identifier: EPL-2.0

// Package tone implements "audmix tone": write a sine wave as a WAV file,
// handy for building test catalogs.
package tone

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/ik5/audmix/cmd/audmix/common"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/utils"
	"github.com/spf13/cobra"
)

// amplitude keeps generated tones clear of clipping.
const amplitude = 0.5

type Params struct {
	Out      string `short:"o" required:"true" help:"Output WAV file."`
	Freq     int    `short:"f" optional:"true" help:"Tone frequency in Hz." default:"440"`
	Dur      string `short:"d" optional:"true" help:"Tone length, e.g. 2s or 750ms." default:"2s"`
	Rate     int    `short:"r" optional:"true" help:"Sample rate in Hz." default:"44100"`
	Channels int    `short:"c" optional:"true" help:"Channel count." default:"1"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "tone",
		Short:       "Write a sine tone to a 16-bit WAV file",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params); err != nil {
				common.Fail("tone", err)
			}
		},
	}.ToCobra()
}

func run(params *Params) error {
	d, err := time.ParseDuration(params.Dur)
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	if params.Rate <= 0 || params.Freq <= 0 {
		return fmt.Errorf("rate %d and frequency %d must be positive", params.Rate, params.Freq)
	}

	f, err := os.Create(params.Out)
	if err != nil {
		return err
	}

	if err := wav.WriteWAV16(f, params.Rate, params.Channels, Sine(params.Freq, params.Rate, params.Channels, d)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", params.Out, err)
	}
	return f.Close()
}

// Sine renders d of a freq Hz sine at rate, the same value on every
// channel.
func Sine(freq, rate, channels int, d time.Duration) []int16 {
	if channels < 1 {
		return nil
	}

	frames := int(int64(d) * int64(rate) / int64(time.Second))
	out := make([]int16, 0, frames*channels)
	step := 2 * math.Pi * float64(freq) / float64(rate)

	for i := range frames {
		s := utils.Float32ToInt16(float32(amplitude * math.Sin(step*float64(i))))
		for range channels {
			out = append(out, s)
		}
	}
	return out
}
