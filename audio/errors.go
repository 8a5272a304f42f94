// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrUnknownFormat = errors.New("no decoder registered for format")
	ErrEmptyBuffer   = errors.New("decoded buffer holds no samples")
)
