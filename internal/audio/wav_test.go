package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWAV(t *testing.T, sampleRate uint32, dataLen int) []byte {
	t.Helper()

	byteRate := sampleRate * 2 // mono, 16-bit
	buf := make([]byte, 0, 44+dataLen)
	u32 := func(v uint32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	}
	u16 := func(v uint16) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	}

	buf = append(buf, "RIFF"...)
	buf = append(buf, u32(uint32(36+dataLen))...)
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = append(buf, u32(16)...)
	buf = append(buf, u16(1)...) // PCM
	buf = append(buf, u16(1)...) // mono
	buf = append(buf, u32(sampleRate)...)
	buf = append(buf, u32(byteRate)...)
	buf = append(buf, u16(2)...)  // block align
	buf = append(buf, u16(16)...) // bits per sample
	buf = append(buf, "data"...)
	buf = append(buf, u32(uint32(dataLen))...)
	buf = append(buf, make([]byte, dataLen)...)

	require.Len(t, buf, 44+dataLen)
	return buf
}

func TestWAVDuration(t *testing.T) {
	// 16kHz mono 16-bit: 32000 bytes per second.
	data := buildWAV(t, 16000, 400000)

	seconds, ok := WAVDuration(data)
	require.True(t, ok)
	assert.InDelta(t, 12.5, seconds, 0.001)
}

func TestWAVDurationRejectsNonWAV(t *testing.T) {
	_, ok := WAVDuration([]byte("not audio at all"))
	assert.False(t, ok)

	_, ok = WAVDuration(nil)
	assert.False(t, ok)
}

func TestWAVDurationMissingFormatChunk(t *testing.T) {
	buf := []byte("RIFF")
	buf = append(buf, 0, 0, 0, 0)
	buf = append(buf, "WAVE"...)

	_, ok := WAVDuration(buf)
	assert.False(t, ok)
}
