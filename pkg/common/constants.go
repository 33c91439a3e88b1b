package common

const (
	RedisStreamInsightGenerate = "journal.insight.generate"

	RedisStreamGroup    = "insight-worker-group"
	RedisStreamConsumer = "insight-worker-consumer"
)
