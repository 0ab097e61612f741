// SPDX-License-Identifier: EPL-2.0

package script

import "errors"

var (
	ErrUnknownOp    = errors.New("unknown op")
	ErrNegativeTime = errors.New("step time is negative")
	ErrBadTick      = errors.New("tick must be positive")
)
