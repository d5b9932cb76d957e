// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import (
	"errors"
	"fmt"
)

// ErrConfig is wrapped by all construction-time validation failures.
// It is the only fatal error class: once a System is built, no per-tick
// condition ever aborts a tick.
var ErrConfig = errors.New("spikenet: invalid configuration")

// InvalidInputError reports an input element addressed outside the
// declared channel width.  The element is dropped and the tick proceeds;
// this error only surfaces through diagnostics.
type InvalidInputError struct {

	// input channel the element arrived on
	Channel string

	// offending element index
	Index int32

	// declared width of the receiving input layer
	Width int32
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("spikenet: input index %d on channel %q outside width %d", e.Index, e.Channel, e.Width)
}
