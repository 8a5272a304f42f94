// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files into playback buffers using
// github.com/jfreymuth/oggvorbis.
//
//	decoder := vorbis.Decoder{}
//	file, _ := os.Open("audio.ogg")
//	buf, err := decoder.Decode(file)
package vorbis
