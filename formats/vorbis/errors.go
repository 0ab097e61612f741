// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var ErrNotVorbis = errors.New("vorbis: not an Ogg Vorbis stream")
