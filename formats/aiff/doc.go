// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files into playback buffers using
// github.com/go-audio/aiff. Only 16-bit PCM files are supported.
package aiff
