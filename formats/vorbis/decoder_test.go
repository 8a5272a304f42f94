// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"testing"
)

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	invalidData := []byte("This is not Ogg Vorbis data")

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader(invalidData))

	if err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader([]byte{}))

	if err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

func TestDecoder_CorruptCapturePattern(t *testing.T) {
	t.Parallel()

	// an Ogg page header with a mangled capture pattern
	corrupt := append([]byte("OggX"), make([]byte, 32)...)

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader(corrupt))

	if err == nil {
		t.Error("Decode() error = nil, want error for a corrupt stream")
	}
}
