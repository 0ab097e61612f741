// SPDX-License-Identifier: EPL-2.0

package ebitenaudio

import (
	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/utils"
)

// bytesPerFrame is the size of one 16-bit stereo frame, the layout
// audio.Context.NewPlayer expects.
const bytesPerFrame = 4

// stereoPCM renders c as 16-bit little-endian stereo.
func stereoPCM(c *clip.Clip) []byte {
	return utils.AppendStereo16LE(make([]byte, 0, c.Frames()*bytesPerFrame), c.Samples(), c.Channels)
}
