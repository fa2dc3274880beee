// Package audio decodes uploaded audio container bytes into the mono
// 16kHz float32 PCM buffer the Whisper pipeline expects. It reads the WAV
// header's declared sample rate/channel count/bit depth rather than
// assuming 16kHz mono, downmixing and resampling when the upload doesn't
// already match. Only 16-bit PCM is accepted; other bit depths are
// rejected, not converted.
package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/llmserver/llmserver/internal/apierr"
)

const targetSampleRate = 16000

// DecodeWAV parses a RIFF/WAVE byte stream and returns mono 16kHz float32
// PCM samples in [-1, 1], ready for whisper_pcm_to_mel.
func DecodeWAV(data []byte) ([]float32, error) {
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, apierr.BadRequest("not a RIFF/WAVE file", nil)
	}

	var (
		channels      int
		sampleRate    int
		bitsPerSample int
		dataOffset    = -1
		dataLen       int
	)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		switch id {
		case "fmt ":
			if body+16 > len(data) {
				return nil, apierr.BadRequest("truncated fmt chunk", nil)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			dataOffset = body
			dataLen = size
		}

		offset = body + size + size%2
	}

	if dataOffset < 0 {
		return nil, apierr.BadRequest("no data chunk found in wav", nil)
	}
	if channels == 0 || sampleRate == 0 || bitsPerSample == 0 {
		return nil, apierr.BadRequest("missing or invalid fmt chunk", nil)
	}
	if bitsPerSample != 16 {
		return nil, apierr.BadRequest(fmt.Sprintf("unsupported bit depth %d (only 16-bit PCM is supported)", bitsPerSample), nil)
	}
	end := dataOffset + dataLen
	if end > len(data) {
		end = len(data)
	}
	raw := data[dataOffset:end]

	mono := decodeInt16Mono(raw, channels)
	return resampleLinear(mono, sampleRate, targetSampleRate), nil
}

// decodeInt16Mono converts interleaved 16-bit PCM samples to a mono
// float32 buffer in [-1, 1], averaging across channels.
func decodeInt16Mono(raw []byte, channels int) []float32 {
	frameSize := 2 * channels
	nFrames := len(raw) / frameSize
	out := make([]float32, nFrames)
	for i := 0; i < nFrames; i++ {
		var sum int32
		for c := 0; c < channels; c++ {
			idx := i*frameSize + c*2
			v := int16(raw[idx]) | int16(raw[idx+1])<<8
			sum += int32(v)
		}
		out[i] = float32(sum) / float32(channels) / 32768.0
	}
	return out
}

// resampleLinear performs simple linear-interpolation resampling. Good
// enough for speech audio; a higher-fidelity pipeline would use a proper
// windowed-sinc resampler instead.
func resampleLinear(samples []float32, fromRate, toRate int) []float32 {
	if fromRate == toRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(samples)) / ratio)
	out := make([]float32, outLen)
	for i := range out {
		srcPos := float64(i) * ratio
		i0 := int(srcPos)
		if i0 >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(srcPos - float64(i0))
		out[i] = samples[i0]*(1-frac) + samples[i0+1]*frac
	}
	return out
}
