// Package inference obtains a label and confidence for an audio clip, either
// from a remote classification backend or from a local mock predictor when no
// backend is reachable.
package inference

// Alternative is a lower-ranked candidate label for a clip.
type Alternative struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Result is the canonical outcome of one inference attempt, regardless of
// whether a remote backend or the local mock produced it.
type Result struct {
	Label           string        `json:"label"`
	Confidence      float64       `json:"confidence"`
	Alternatives    []Alternative `json:"alternatives,omitempty"`
	InferenceTimeMs int64         `json:"inference_time_ms"`
	Source          string        `json:"source"` // "backend" or "mock"
}

// predictResponse is the JSON shape the backend returns from /predict.
// Every field is optional on the wire, missing fields fall back to defaults.
type predictResponse struct {
	PredLabel       string    `json:"pred_label"`
	PredIdx         *int      `json:"pred_idx"`
	Scores          []float64 `json:"scores"`
	InferenceTimeMs float64   `json:"inference_time_ms"`
	TopK            []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"top_k"`
}

// toResult maps the wire shape to a Result, substituting defaults for
// anything the server omitted. It never fails.
func (pr *predictResponse) toResult() *Result {
	r := &Result{
		Label:           "unknown",
		Confidence:      0,
		InferenceTimeMs: int64(pr.InferenceTimeMs),
		Source:          "backend",
	}

	if pr.PredLabel != "" {
		r.Label = pr.PredLabel
	}

	if pr.PredIdx != nil {
		idx := *pr.PredIdx
		if idx >= 0 && idx < len(pr.Scores) {
			r.Confidence = pr.Scores[idx]
		}
	}

	for i, alt := range pr.TopK {
		if i == 0 {
			// first top_k entry repeats the winning label
			continue
		}
		r.Alternatives = append(r.Alternatives, Alternative{
			Label:      alt.Label,
			Confidence: alt.Score,
		})
		if len(r.Alternatives) == 2 {
			break
		}
	}

	return r
}
