package myaudio

import "math"

// ResampleAudio resamples the given audio slice from the original sample rate
// to the target sample rate using cubic interpolation. The output always
// contains ceil(duration * targetRate) frames so that resampling never
// truncates or loops the signal.
func ResampleAudio(samples []float32, originalRate, targetRate int) ([]float32, error) {
	if originalRate == targetRate {
		return samples, nil
	}
	if len(samples) == 0 {
		return samples, nil
	}

	ratio := float64(targetRate) / float64(originalRate)
	newLength := int(math.Ceil(float64(len(samples)) * ratio))
	resampled := make([]float32, newLength)

	audioLength := len(samples)
	lastIndex := audioLength - 3
	if lastIndex < 1 {
		// Too short for cubic interpolation, fall back to nearest neighbour.
		for i := range resampled {
			src := int(float64(i) / ratio)
			if src >= audioLength {
				src = audioLength - 1
			}
			resampled[i] = samples[src]
		}
		return resampled, nil
	}

	for i := 0; i < newLength; i++ {
		origPos := float64(i) / ratio
		index := int(origPos)

		// Clamp index to avoid out-of-bounds access
		if index < 1 {
			index = 1
		} else if index > lastIndex {
			index = lastIndex
		}

		frac := float32(origPos) - float32(index)

		y0, y1, y2, y3 := samples[index-1], samples[index], samples[index+1], samples[index+2]
		mu2 := frac * frac
		a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
		a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
		a2 := -0.5*y0 + 0.5*y2
		a3 := y1

		resampled[i] = a0*frac*mu2 + a1*mu2 + a2*frac + a3
	}

	return resampled, nil
}

// downmixToMono averages interleaved multi-channel samples into one channel.
func downmixToMono(samples []float32, numChannels int) []float32 {
	if numChannels <= 1 {
		return samples
	}
	frames := len(samples) / numChannels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < numChannels; ch++ {
			sum += samples[i*numChannels+ch]
		}
		mono[i] = sum / float32(numChannels)
	}
	return mono
}
