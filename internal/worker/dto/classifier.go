package dto

// SentimentScore is the classifier output for one text: an overall score in
// [-1,1] plus the positive and negative class probabilities in [0,1].
type SentimentScore struct {
	Score   float64 `json:"score"`
	PosProb float64 `json:"pos_prob"`
	NegProb float64 `json:"neg_prob"`
}

// NeutralScore is the fallback used when the classifier fails; scoring is
// best-effort and a bad model call must not stall the pipeline.
func NeutralScore() SentimentScore {
	return SentimentScore{Score: 0, PosProb: 0.33, NegProb: 0.33}
}

// FinbertScoreRequest is the request body for the FinBERT sidecar.
type FinbertScoreRequest struct {
	Text string `json:"text"`
}
