// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files into playback buffers using
// github.com/hajimehoshi/go-mp3.
//
//	decoder := mp3.Decoder{}
//	file, _ := os.Open("audio.mp3")
//	buf, err := decoder.Decode(file)
//
// go-mp3 always produces stereo output, so the resulting audio.Buffer has
// two channels regardless of the original encoding.
package mp3
