// SPDX-License-Identifier: EPL-2.0

// Package wav decodes WAV files into playback buffers.
//
// Decoding goes through github.com/go-audio/wav and supports the PCM bit
// depths go-audio handles (8/16/24/32-bit), mono or multichannel, at any
// sample rate:
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("audio.wav")
//	buf, err := decoder.Decode(file)
//
// The result is an audio.Buffer of interleaved float32 samples in
// [-1.0, 1.0], ready to be attached to a buffer source.
package wav
