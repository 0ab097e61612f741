// SPDX-License-Identifier: EPL-2.0

package run

import "errors"

var ErrUnknownBackend = errors.New("unknown backend")
