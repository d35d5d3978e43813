package whisper

import (
	"encoding/binary"
	"fmt"
)

// decodeWAVFloat32Mono parses a canonical 16-bit PCM RIFF/WAV container and
// returns its samples as float32 in [-1.0, 1.0], down-mixed to mono. It
// supports exactly the subset of the WAV format whisper.cpp itself expects
// and makes no attempt to handle compressed codecs or extended fmt chunks.
func decodeWAVFloat32Mono(wav []byte) ([]float32, int, error) {
	if len(wav) < 44 {
		return nil, 0, fmt.Errorf("wav data too short (%d bytes)", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE container")
	}

	var (
		channels      int
		sampleRate    int
		bitsPerSample int
		data          []byte
	)

	offset := 12
	for offset+8 <= len(wav) {
		chunkID := string(wav[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(wav) {
			break
		}
		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, fmt.Errorf("fmt chunk too short")
			}
			channels = int(binary.LittleEndian.Uint16(wav[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(wav[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(wav[body+14 : body+16]))
		case "data":
			data = wav[body : body+chunkSize]
		}
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++ // chunks are word-aligned
		}
	}

	if data == nil {
		return nil, 0, fmt.Errorf("no data chunk found")
	}
	if bitsPerSample != 16 {
		return nil, 0, fmt.Errorf("unsupported bits per sample: %d (only 16-bit PCM is supported)", bitsPerSample)
	}
	if channels <= 0 {
		channels = 1
	}

	return pcmToFloat32Mono(data, channels), sampleRate, nil
}

// pcmToFloat32Mono down-mixes multi-channel 16-bit signed little-endian PCM
// to mono float32 samples normalised to [-1.0, 1.0] by averaging channels
// per frame. If channels is 1 this is a direct per-sample conversion.
func pcmToFloat32Mono(pcm []byte, channels int) []float32 {
	if channels <= 1 {
		n := len(pcm) / 2
		samples := make([]float32, n)
		for i := range n {
			sample := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
			samples[i] = float32(sample) / 32768.0
		}
		return samples
	}

	samplesPerChannel := len(pcm) / (2 * channels)
	mono := make([]float32, samplesPerChannel)
	for i := range samplesPerChannel {
		var sum float32
		for ch := range channels {
			idx := (i*channels + ch) * 2
			sample := int16(binary.LittleEndian.Uint16(pcm[idx : idx+2]))
			sum += float32(sample) / 32768.0
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
