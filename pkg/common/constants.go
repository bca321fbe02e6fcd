package common

const (
	RedisStreamCandidatePosts = "candidate.posts"
	RedisStreamFailedSuffix   = ".failed"

	RedisStreamGroup    = "sentiment-group"
	RedisStreamConsumer = "sentiment-worker"
)
