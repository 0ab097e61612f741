// SPDX-License-Identifier: EPL-2.0

package run

import (
	"fmt"
	"io"
	"strings"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/internal/script"
	"github.com/ik5/audmix/music"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
)

// tracer collects one table row per frame whose state or commands differ
// from the previous row.
type tracer struct {
	t    table.Writer
	last string
	rows int
}

func newTracer(w io.Writer) *tracer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Time", "Commands", "Effects", "Music 0", "Music 1", "Playlist"})
	return &tracer{t: t}
}

func (tr *tracer) add(f script.Frame, s audmix.Snapshot) {
	row := table.Row{
		f.At,
		strings.Join(lo.Map(f.Applied, func(st script.Step, _ int) string { return st.String() }), ", "),
		effects(s),
		channel(s.Music[0]),
		channel(s.Music[1]),
		playlist(s),
	}

	key := fmt.Sprint(row[1:]...)
	if key == tr.last {
		return
	}
	tr.last = key
	tr.t.AppendRow(row)
	tr.rows++
}

func (tr *tracer) render() {
	tr.t.Render()
}

func effects(s audmix.Snapshot) string {
	if len(s.Effects) == 0 {
		return "-"
	}
	return fmt.Sprintf("%v last=%d", s.Effects, s.CurrentEffect)
}

func channel(c music.ChannelInfo) string {
	if c.State == music.Stop {
		return "-"
	}

	mark := ""
	if c.Main {
		mark = "*"
	}
	return fmt.Sprintf("%s%d %s %.2f", mark, c.Track, c.State, c.Volume)
}

func playlist(s audmix.Snapshot) string {
	if len(s.Playlist) == 0 {
		return "-"
	}
	return fmt.Sprintf("%v @%d", s.Playlist, s.PlaylistIndex)
}
