package inference

import (
	"math/rand/v2"
	"time"

	"github.com/Ojas-Arora/SoundAware/internal/myaudio"
)

// MockInfer synthesizes a classification result when no backend candidate
// could be reached. The label is drawn uniformly from the fixed taxonomy and
// the confidence is random, nudged by the configured sensitivity. The output
// carries no predictive validity; it exists so a recording always yields a
// visible result.
func MockInfer(clip *myaudio.Clip, sensitivity float64) *Result {
	start := time.Now()

	label := allSounds[rand.IntN(len(allSounds))]

	confidence := 0.6 + rand.Float64()*0.35
	if sensitivity > 0.8 {
		confidence += 0.1
	}
	if sensitivity < 0.5 {
		confidence -= 0.1
	}
	confidence = min(0.99, max(0.3, confidence))

	result := &Result{
		Label:      label,
		Confidence: confidence,
		Source:     "mock",
	}

	// Two alternative labels with confidences strictly below the winner.
	for _, idx := range rand.Perm(len(allSounds)) {
		if allSounds[idx] == label {
			continue
		}
		result.Alternatives = append(result.Alternatives, Alternative{
			Label:      allSounds[idx],
			Confidence: rand.Float64() * (confidence - 0.1),
		})
		if len(result.Alternatives) == 2 {
			break
		}
	}

	result.InferenceTimeMs = time.Since(start).Milliseconds()
	return result
}
