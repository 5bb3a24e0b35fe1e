package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcmOf(samples ...int16) []byte {
	return int16ToBytes(samples)
}

func TestInt16BytesRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 12345}
	assert.Equal(t, samples, bytesToInt16(int16ToBytes(samples)))
}

func TestResampleRates(t *testing.T) {
	in := make([]int16, 48000) // 1s at 48kHz
	out := resample(in, 48000, 16000)
	assert.Equal(t, 16000, len(out))

	out = resample(in, 48000, 48000)
	assert.Equal(t, 48000, len(out))

	up := resample(make([]int16, 24000), 24000, 48000)
	assert.Equal(t, 48000, len(up))
}

func TestDownsample48kStereoTo16kMono(t *testing.T) {
	// 20ms of 48kHz stereo = 960 frames
	stereo := make([]int16, 0, 960*2)
	for i := 0; i < 960; i++ {
		stereo = append(stereo, 1000, 3000) // L, R -> mono 2000
	}

	mono := Downsample48kStereoTo16kMono(int16ToBytes(stereo))
	samples := bytesToInt16(mono)
	assert.Equal(t, 320, len(samples)) // 20ms at 16kHz

	for _, s := range samples {
		assert.Equal(t, int16(2000), s)
	}
}

func TestUpsampleTo48kStereoFrameAligned(t *testing.T) {
	// 1s at 16kHz mono
	out := UpsampleTo48kStereo(make([]byte, PipelineSampleRate*2), PipelineSampleRate)
	require.NotNil(t, out)

	assert.Zero(t, len(out)%FrameBytes)
	assert.Equal(t, OutputSampleRate*OutputChannels*2, len(out)) // exactly 1s stereo
}

func TestUpsamplePadsWithLastSample(t *testing.T) {
	// 10ms at 24kHz -> 10ms at 48kHz stereo, padded up to one 20ms frame
	in := make([]int16, 240)
	for i := range in {
		in[i] = 7777
	}

	out := UpsampleTo48kStereo(int16ToBytes(in), TTSSampleRate)
	require.Equal(t, FrameBytes, len(out))

	samples := bytesToInt16(out)
	assert.Equal(t, int16(7777), samples[len(samples)-1])
}

func TestNoiseGateZeroesIsolatedNoise(t *testing.T) {
	// Quiet hiss everywhere, no loud samples: everything gated
	quiet := make([]int16, 4800)
	for i := range quiet {
		quiet[i] = 100
	}
	out := bytesToInt16(NoiseGate(int16ToBytes(quiet)))
	for _, s := range out {
		assert.Equal(t, int16(0), s)
	}
}

func TestNoiseGateKeepsSpeechNeighborhood(t *testing.T) {
	samples := make([]int16, 4800)
	for i := range samples {
		samples[i] = 100
	}
	samples[2400] = 8000 // one loud sample

	out := bytesToInt16(NoiseGate(int16ToBytes(samples)))

	// Within the dilation radius the quiet samples survive
	assert.Equal(t, int16(100), out[2400-noiseGateDilation])
	assert.Equal(t, int16(8000), out[2400])
	assert.Equal(t, int16(100), out[2400+noiseGateDilation])

	// Far away they are gated
	assert.Equal(t, int16(0), out[0])
	assert.Equal(t, int16(0), out[4799])
}

func TestChunk20msExactSplit(t *testing.T) {
	pcm := make([]byte, FrameBytes*5)
	chunks := Chunk20ms(pcm)
	require.Len(t, chunks, 5)
	for _, c := range chunks {
		assert.Equal(t, FrameBytes, len(c))
	}
}

func TestChunk20msPadsFinalChunk(t *testing.T) {
	pcm := make([]byte, FrameBytes+8)
	// Mark the final stereo frame
	copy(pcm[FrameBytes+4:], pcmOf(1111, 2222))

	chunks := Chunk20ms(pcm)
	require.Len(t, chunks, 2)
	assert.Equal(t, FrameBytes, len(chunks[1]))

	tail := bytesToInt16(chunks[1])
	// Padding repeats the last stereo frame, not silence
	assert.Equal(t, int16(1111), tail[len(tail)-2])
	assert.Equal(t, int16(2222), tail[len(tail)-1])
}

func TestMeanAbsAmplitude(t *testing.T) {
	assert.Equal(t, float64(0), MeanAbsAmplitude(nil))
	assert.Equal(t, float64(1000), MeanAbsAmplitude(pcmOf(1000, -1000, 1000, -1000)))
}

func TestWAVRoundTrip(t *testing.T) {
	pcm := int16ToBytes([]int16{1, -2, 3, -4, 5, -6})
	wav := WAVFromPCM(pcm, PipelineSampleRate, 1)

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, 44+len(pcm), len(wav))

	out, rate, err := PCMFromWAV(wav)
	require.NoError(t, err)
	assert.Equal(t, PipelineSampleRate, rate)
	assert.Equal(t, pcm, out)
}

func TestPCMFromWAVDownmixesStereo(t *testing.T) {
	stereo := int16ToBytes([]int16{1000, 3000, 2000, 4000})
	wav := WAVFromPCM(stereo, 24000, 2)

	out, rate, err := PCMFromWAV(wav)
	require.NoError(t, err)
	assert.Equal(t, 24000, rate)
	assert.Equal(t, []int16{2000, 3000}, bytesToInt16(out))
}

func TestPCMFromWAVRejectsGarbage(t *testing.T) {
	_, _, err := PCMFromWAV([]byte("not a wav file at all, definitely not 44 bytes of RIFF"))
	assert.ErrorIs(t, err, ErrInvalidWAV)
}
