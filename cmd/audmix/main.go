// SPDX-License-Identifier: EPL-2.0

// Command audmix inspects audio assets and replays mixer sessions.
package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/ik5/audmix/cmd/audmix/probe"
	"github.com/ik5/audmix/cmd/audmix/run"
	"github.com/ik5/audmix/cmd/audmix/tone"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "audmix",
		Short:   "Effect and music mixer toolbox",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			probe.Cmd(),
			run.Cmd(),
			tone.Cmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-(no build info)"
	}

	v := bi.Main.Version
	if v == "" {
		v = "unknown-(no version)"
	}
	return v
}
