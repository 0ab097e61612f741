// SPDX-License-Identifier: EPL-2.0

// Package probe implements "audmix probe": decode clips and list their
// layout.
package probe

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/cmd/audmix/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type Params struct {
	Files []string `pos:"true" required:"true" help:"Audio files to decode."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "probe",
		Short:       "Decode audio files and print their format and length",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if failed := Probe(os.Stdout, clip.NewCatalog(nil), params.Files); failed > 0 {
				common.Fail("probe", fmt.Errorf("%d of %d files failed", failed, len(params.Files)))
			}
		},
	}.ToCobra()
}

// Probe writes one table row per file and returns how many failed to
// decode. Failures are listed in the table rather than stopping the run.
func Probe(w io.Writer, cat *clip.Catalog, files []string) int {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Format", "Rate", "Channels", "Frames", "Duration"})

	failed := 0
	for _, f := range files {
		c, err := cat.Load(f)
		if err != nil {
			failed++
			t.AppendRow(table.Row{f, text.FgHiRed.Sprint(err.Error()), "", "", "", ""})
			continue
		}
		t.AppendRow(table.Row{f, c.Format, c.SampleRate, c.Channels, c.Frames(), c.Duration})
	}

	t.Render()
	return failed
}
