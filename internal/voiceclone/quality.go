// Package voiceclone collects speaker audio and maintains voice
// embeddings used for cloned synthesis. The store is a leaf service keyed
// by (speaker, room); it never references cabins.
package voiceclone

import "math"

// Quality summarizes how usable a stretch of audio is for voice cloning.
type Quality struct {
	Overall     float64 `json:"overall_quality"`
	HasSpeech   bool    `json:"has_speech"`
	SpeechRatio float64 `json:"speech_ratio"`
	SignalLevel float64 `json:"signal_level"`
}

// AssessQuality scores 16 kHz mono PCM on signal level, dynamic range,
// speech activity, and background noise. Scores are weighted into a
// single [0,1] value.
func AssessQuality(samples []int16, sampleRate int) Quality {
	if len(samples) == 0 {
		return Quality{}
	}

	// Normalize to [-1, 1] floats, then by peak amplitude.
	audio := make([]float64, len(samples))
	peak := 0.0
	for i, s := range samples {
		audio[i] = float64(s) / 32767.0
		if a := math.Abs(audio[i]); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return Quality{}
	}
	for i := range audio {
		audio[i] /= peak
	}

	var score float64

	// Signal level (30%)
	var sumSq float64
	for _, v := range audio {
		sumSq += v * v
	}
	rms := math.Sqrt(sumSq / float64(len(audio)))
	levelScore := 0.0
	switch {
	case rms < 0.02:
	case rms > 0.2:
		levelScore = 1.0
	default:
		levelScore = rms / 0.2
	}
	score += levelScore * 0.3

	// Dynamic range (25%)
	minV, maxV := audio[0], audio[0]
	for _, v := range audio {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	dynamicRange := maxV - minV
	if dynamicRange >= 0.1 {
		score += math.Min(dynamicRange/0.8, 1.0) * 0.25
	}

	// Speech activity (30%): 25ms frames, 10ms hop, energy threshold
	frameSize := sampleRate / 40
	hopSize := sampleRate / 100
	speechFrames, totalFrames := 0, 0
	for i := 0; i+frameSize <= len(audio); i += hopSize {
		var energy float64
		for _, v := range audio[i : i+frameSize] {
			energy += v * v
		}
		energy /= float64(frameSize)
		if energy > 0.01 {
			speechFrames++
		}
		totalFrames++
	}
	speechRatio := 0.0
	if totalFrames > 0 {
		speechRatio = float64(speechFrames) / float64(totalFrames)
	}
	hasSpeech := speechRatio > 0.3
	if hasSpeech {
		score += math.Min(speechRatio/0.7, 1.0) * 0.3
	}

	// Background noise (15%): estimate from near-silent samples
	var quiet []float64
	for _, v := range audio {
		if math.Abs(v) < 0.005 {
			quiet = append(quiet, v)
		}
	}
	noiseScore := 0.5
	if len(quiet) > 0 {
		var mean float64
		for _, v := range quiet {
			mean += v
		}
		mean /= float64(len(quiet))
		var variance float64
		for _, v := range quiet {
			variance += (v - mean) * (v - mean)
		}
		noise := math.Sqrt(variance / float64(len(quiet)))
		noiseScore = math.Max(0, 1-noise*100)
	}
	score += noiseScore * 0.15

	return Quality{
		Overall:     math.Min(math.Max(score, 0), 1),
		HasSpeech:   hasSpeech,
		SpeechRatio: speechRatio,
		SignalLevel: rms,
	}
}

// UsableForClone reports whether audio meets the bar for extracting an
// embedding: real speech, decent coverage, adequate level.
func UsableForClone(q Quality) bool {
	return q.HasSpeech &&
		q.SpeechRatio > 0.4 &&
		q.Overall >= 0.6 &&
		q.SignalLevel > 0.05
}

// Improves reports whether a new recording is enough of an upgrade over
// the stored one to justify replacing the embedding.
func Improves(old, new Quality) bool {
	qualityGain := new.Overall - old.Overall
	speechGain := new.SpeechRatio - old.SpeechRatio
	return qualityGain > 0.1 || (qualityGain > 0.05 && speechGain > 0.2)
}
