package services

import "github.com/prometheus/client_golang/prometheus"

var (
	chatTurns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Chat turns persisted, by risk flag.",
		},
		[]string{"risk"},
	)

	chatFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_failures_total",
			Help: "Chat turns that failed, by pipeline stage.",
		},
		[]string{"stage"},
	)

	chatReplays = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_replays_total",
			Help: "Chat turns answered from an idempotency record.",
		},
	)

	moodsAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moods_appended_total",
			Help: "Mood entries written, by source (chat|manual).",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(chatTurns, chatFailures, chatReplays, moodsAppended)
}

// Failure stages.
const (
	stageCompletion = "completion"
	stageChatStore  = "chat_store"
	stageMoodStore  = "mood_store"
)
