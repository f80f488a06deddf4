package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "gge_bot"

	LabelCommand  = "command"
	LabelOutcome  = "outcome"
	LabelUsername = "username"
	LabelServer   = "server"

	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeTimeout  = "timeout"
)

var (
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "api_requests_total",
		Namespace: Namespace,
		Help:      "number of requests sent to the puppet API server",
	}, []string{LabelCommand, LabelOutcome})

	APIReconnects = prometheus.NewCounter(prometheus.CounterOpts{
		Name:      "api_reconnects_total",
		Namespace: Namespace,
		Help:      "number of reconnection attempts to the puppet API server",
	})

	AttackWarnings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "attack_warnings_total",
		Namespace: Namespace,
		Help:      "number of attack warnings published by the listeners",
	}, []string{LabelUsername, LabelServer})

	DiscordMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name:      "discord_messages_sent_total",
		Namespace: Namespace,
		Help:      "number of messages sent to Discord channels",
	})

	BattleReportSummaries = prometheus.NewCounter(prometheus.CounterOpts{
		Name:      "battle_report_summaries_total",
		Namespace: Namespace,
		Help:      "number of battle report summaries generated",
	})
)

func Register(registry prometheus.Registerer) {
	registry.MustRegister(
		APIRequests,
		APIReconnects,
		AttackWarnings,
		DiscordMessagesSent,
		BattleReportSummaries,
	)
}
