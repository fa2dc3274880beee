package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWAV constructs a minimal mono 16-bit PCM WAV file at the given
// sample rate containing the given samples.
func buildWAV(sampleRate int, samples []int16) []byte {
	dataLen := len(samples) * 2
	buf := make([]byte, 44+dataLen)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*2))
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[44+i*2:46+i*2], uint16(s))
	}
	return buf
}

func TestDecodeWAVAlreadyTargetRate(t *testing.T) {
	data := buildWAV(16000, []int16{0, 16384, -16384, 32767})
	pcm, err := DecodeWAV(data)
	require.NoError(t, err)
	require.Len(t, pcm, 4)
	assert.InDelta(t, 0.5, pcm[1], 0.001)
	assert.InDelta(t, -0.5, pcm[2], 0.001)
}

func TestDecodeWAVRejectsNonRIFF(t *testing.T) {
	_, err := DecodeWAV([]byte("not a wav file at all"))
	assert.Error(t, err)
}

func TestDecodeWAVResamples(t *testing.T) {
	samples := make([]int16, 32000) // 1s at 32kHz
	data := buildWAV(32000, samples)
	pcm, err := DecodeWAV(data)
	require.NoError(t, err)
	assert.InDelta(t, 16000, len(pcm), 2)
}
