package audio

import (
	"encoding/binary"
	"errors"
	"math"
)

const (
	// PipelineSampleRate is the mono rate fed to the ML pipeline.
	PipelineSampleRate = 16000
	// TTSSampleRate is the mono rate produced by the synthesizer.
	TTSSampleRate = 24000

	// Noise gate defaults; heuristic, not a contract.
	noiseGateThreshold = 500
	noiseGateDilation  = 480 // ~10ms at 48kHz
)

// ErrInvalidWAV is returned for data that does not parse as 16-bit PCM WAV.
var ErrInvalidWAV = errors.New("audio: invalid wav data")

// bytesToInt16 reinterprets little-endian 16-bit PCM bytes as samples.
func bytesToInt16(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return out
}

// int16ToBytes serializes samples as little-endian 16-bit PCM.
func int16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// resample converts between sample rates using linear interpolation.
func resample(samples []int16, srcRate, dstRate int) []int16 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(srcRate) / float64(dstRate)
	outLen := int(float64(len(samples)) / ratio)
	if outLen == 0 {
		return nil
	}
	out := make([]int16, outLen)
	for i := range out {
		srcIdx := float64(i) * ratio
		idx := int(srcIdx)
		frac := srcIdx - float64(idx)
		if idx+1 < len(samples) {
			v := float64(samples[idx])*(1-frac) + float64(samples[idx+1])*frac
			out[i] = int16(v)
		} else {
			out[i] = samples[len(samples)-1]
		}
	}
	return out
}

// Downsample48kStereoTo16kMono converts decoded SFU audio to the pipeline
// format: average the channels, then drop to 16 kHz.
func Downsample48kStereoTo16kMono(pcm []byte) []byte {
	if len(pcm) < 4 {
		return nil
	}
	samples := bytesToInt16(pcm)
	if len(samples)%2 != 0 {
		samples = samples[:len(samples)-1]
	}

	mono := make([]int16, len(samples)/2)
	for i := range mono {
		mono[i] = int16((int32(samples[i*2]) + int32(samples[i*2+1])) / 2)
	}

	return int16ToBytes(resample(mono, OutputSampleRate, PipelineSampleRate))
}

// UpsampleTo48kStereo converts mono PCM at srcRate to 48 kHz stereo by
// resampling and duplicating the channel. The result is padded to a whole
// number of 20 ms Opus frames by repeating the final sample, which avoids
// the click a zero tail produces.
func UpsampleTo48kStereo(pcm []byte, srcRate int) []byte {
	if len(pcm) < 2 {
		return nil
	}
	mono := resample(bytesToInt16(pcm), srcRate, OutputSampleRate)
	if len(mono) == 0 {
		return nil
	}

	stereo := make([]int16, 0, len(mono)*2)
	for _, s := range mono {
		stereo = append(stereo, s, s)
	}

	frameSamples := FrameSamples * OutputChannels
	if rem := len(stereo) % frameSamples; rem != 0 {
		last := stereo[len(stereo)-1]
		for i := 0; i < frameSamples-rem; i++ {
			stereo = append(stereo, last)
		}
	}

	return int16ToBytes(stereo)
}

// NoiseGate zeroes samples that sit below the amplitude threshold and have
// no above-threshold neighbor within the dilation radius. Keeping a
// dilated neighborhood around loud samples preserves consonant tails
// while removing inter-word hiss.
func NoiseGate(pcm []byte) []byte {
	samples := bytesToInt16(pcm)
	n := len(samples)
	if n == 0 {
		return pcm
	}

	// Prefix counts of above-threshold samples, so each window check is O(1).
	prefix := make([]int32, n+1)
	for i, s := range samples {
		above := int32(0)
		if abs16(s) > noiseGateThreshold {
			above = 1
		}
		prefix[i+1] = prefix[i] + above
	}

	out := make([]int16, n)
	for i, s := range samples {
		lo := i - noiseGateDilation
		if lo < 0 {
			lo = 0
		}
		hi := i + noiseGateDilation + 1
		if hi > n {
			hi = n
		}
		if prefix[hi]-prefix[lo] > 0 {
			out[i] = s
		}
	}
	return int16ToBytes(out)
}

// Chunk20ms splits 48 kHz stereo PCM into 20 ms frames. The final short
// chunk is padded by repeating its last stereo frame.
func Chunk20ms(pcm []byte) [][]byte {
	if len(pcm) == 0 {
		return nil
	}

	var chunks [][]byte
	for off := 0; off < len(pcm); off += FrameBytes {
		end := off + FrameBytes
		if end <= len(pcm) {
			chunks = append(chunks, pcm[off:end])
			continue
		}

		chunk := make([]byte, 0, FrameBytes)
		chunk = append(chunk, pcm[off:]...)
		if len(chunk) >= 4 {
			lastFrame := chunk[len(chunk)-4:]
			for len(chunk) < FrameBytes {
				chunk = append(chunk, lastFrame...)
			}
		}
		chunks = append(chunks, chunk[:FrameBytes])
	}
	return chunks
}

// MeanAbsAmplitude returns the mean absolute sample value of 16-bit PCM.
func MeanAbsAmplitude(pcm []byte) float64 {
	samples := bytesToInt16(pcm)
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += math.Abs(float64(s))
	}
	return sum / float64(len(samples))
}

// WAVFromPCM wraps raw 16-bit PCM in a RIFF/WAVE container for the STT
// upload.
func WAVFromPCM(pcm []byte, sampleRate, channels int) []byte {
	byteRate := sampleRate * channels * 2
	blockAlign := channels * 2

	buf := make([]byte, 44+len(pcm))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+len(pcm)))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(len(pcm)))
	copy(buf[44:], pcm)
	return buf
}

// PCMFromWAV extracts mono 16-bit PCM and its sample rate from a WAV blob.
// Stereo input is downmixed by channel average.
func PCMFromWAV(wav []byte) ([]byte, int, error) {
	if len(wav) < 44 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, 0, ErrInvalidWAV
	}

	var sampleRate, channels, bits int
	var data []byte

	// Walk RIFF chunks; fmt must precede data.
	off := 12
	for off+8 <= len(wav) {
		id := string(wav[off : off+4])
		size := int(binary.LittleEndian.Uint32(wav[off+4 : off+8]))
		body := off + 8
		if body+size > len(wav) {
			size = len(wav) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, ErrInvalidWAV
			}
			channels = int(binary.LittleEndian.Uint16(wav[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(wav[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(wav[body+14 : body+16]))
		case "data":
			data = wav[body : body+size]
		}

		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if sampleRate == 0 || data == nil || bits != 16 || channels < 1 {
		return nil, 0, ErrInvalidWAV
	}

	if channels == 2 {
		samples := bytesToInt16(data)
		if len(samples)%2 != 0 {
			samples = samples[:len(samples)-1]
		}
		mono := make([]int16, len(samples)/2)
		for i := range mono {
			mono[i] = int16((int32(samples[i*2]) + int32(samples[i*2+1])) / 2)
		}
		data = int16ToBytes(mono)
	}

	return data, sampleRate, nil
}

func abs16(s int16) int {
	if s < 0 {
		return -int(s)
	}
	return int(s)
}
