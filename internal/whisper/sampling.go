package whisper

import (
	"math"
	"math/rand"
)

// negInf is used to mask out suppressed vocabulary entries without
// reshaping the logits slice.
const negInf = float32(math.Inf(-1))

// applySuppressMask returns a copy of logits with every index for which
// suppress(id) is true forced to -Inf, so it can never be sampled.
func applySuppressMask(logits []float32, suppress func(id int) bool) []float32 {
	out := make([]float32, len(logits))
	copy(out, logits)
	for i := range out {
		if suppress(i) {
			out[i] = negInf
		}
	}
	return out
}

// softmax converts logits to a probability distribution. Entries at -Inf
// contribute zero probability mass.
func softmax(logits []float32) []float32 {
	max := logits[0]
	for _, v := range logits {
		if v > max {
			max = v
		}
	}
	out := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		if math.IsInf(float64(v), -1) {
			out[i] = 0
			continue
		}
		e := math.Exp(float64(v - max))
		out[i] = float32(e)
		sum += e
	}
	if sum == 0 {
		return out
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}

// sampleToken picks the next token id from logits: argmax at temperature
// 0, otherwise a weighted draw from the temperature-scaled softmax
// distribution, matching decoder.rs's argmax/multinomial split.
func sampleToken(logits []float32, temperature float64, rng *rand.Rand) int {
	if temperature <= 0 {
		best, bestLogit := 0, logits[0]
		for i, v := range logits {
			if v > bestLogit {
				best, bestLogit = i, v
			}
		}
		return best
	}

	scaled := make([]float32, len(logits))
	for i, v := range logits {
		if math.IsInf(float64(v), -1) {
			scaled[i] = v
			continue
		}
		scaled[i] = float32(float64(v) / temperature)
	}
	probs := softmax(scaled)

	r := rng.Float64()
	var cum float64
	for i, p := range probs {
		cum += float64(p)
		if r <= cum {
			return i
		}
	}
	return len(probs) - 1
}

// compressionRatio estimates how compressible the decoded text is, used by
// the temperature fallback's degenerate-repetition gate. A cheap
// character-frequency (Shannon entropy) proxy is used instead of true
// gzip, avoiding a compress/gzip round trip on every candidate segment.
func compressionRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	counts := make(map[rune]int)
	for _, r := range text {
		counts[r]++
	}
	var entropy float64
	n := float64(len(text))
	for _, c := range counts {
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}
	if entropy == 0 {
		return n
	}
	// raw bytes / estimated compressed bytes, where compressed bytes is
	// entropy (bits/char) * n chars / 8.
	return 8 / entropy
}
