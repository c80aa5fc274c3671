package search

import "math"

// lexicalOverlapScore ranks how well a chunk's text covers the query terms.
//
// For each query token the chunk contributes tf*idf, where tf is the token's
// frequency in the chunk and idf discounts tokens the chunk repeats heavily.
// The sum is normalized by the maximum attainable score so results lie in
// [0, 1] and are comparable across chunks of different lengths.
func lexicalOverlapScore(query, chunkText string) float32 {
	if chunkText == "" {
		return 0
	}

	queryTokens := tokenize(query)
	chunkTokens := tokenize(chunkText)
	if len(queryTokens) == 0 || len(chunkTokens) == 0 {
		return 0
	}

	freq := make(map[string]int, len(chunkTokens))
	for _, token := range chunkTokens {
		freq[token]++
	}
	length := float64(len(chunkTokens))

	var score, maxScore float64
	for _, token := range queryTokens {
		tf := float64(freq[token]) / length
		idf := math.Log(1 + 1/(1+float64(freq[token])))
		score += tf * idf
		maxScore += idf
	}

	if maxScore == 0 {
		return 0
	}
	return float32(score / maxScore)
}
