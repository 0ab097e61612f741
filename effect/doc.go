// SPDX-License-Identifier: EPL-2.0

// Package effect mixes short sound effects over a fixed pool of voices.
//
// The pool never grows. Triggering an effect takes the first idle voice or,
// when all voices are busy, steals the one that started earliest, so the
// newest sounds always win. Indexes outside the clip list act as a "stop
// everything" command.
package effect
