package obfuscator

// Result is a snapshot of a Minify call
type Result struct {
	Minified      string `json:"minified"`
	OriginalBytes int    `json:"original_bytes"`
	MinifiedBytes int    `json:"minified_bytes"`
}

// ReducedBytes returns how many stylesheet bytes were saved
func (r *Result) ReducedBytes() int {
	return r.OriginalBytes - r.MinifiedBytes
}

// ReducedPercentage returns the saving relative to the original stylesheet
// size, or 0 when there was no stylesheet content.
func (r *Result) ReducedPercentage() float64 {
	return Percentage(r.OriginalBytes, r.MinifiedBytes)
}

// String returns the minified document
func (r *Result) String() string {
	return r.Minified
}

// Percentage returns the reduction from original to minified in percent
func Percentage(original, minified int) float64 {
	if original == 0 {
		return 0
	}
	return float64(original-minified) / float64(original) * 100
}
