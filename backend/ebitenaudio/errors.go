// SPDX-License-Identifier: EPL-2.0

package ebitenaudio

import "errors"

var ErrUnavailable = errors.New("ebiten audio output is not available in this build")
