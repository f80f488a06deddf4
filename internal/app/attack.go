package app

import "context"

// Attack is a model that represents one incoming attack decoded from a puppet's mail.
type Attack struct {
	ID                 int64
	RemainingTime      int64 // seconds until impact
	TargetX            int
	TargetY            int
	TargetName         string
	TargetPlayerName   string
	AttackerX          int
	AttackerY          int
	AttackerName       string
	AttackerPlayerName string
	TroopEstimate      int64 // -1 when the server gave no estimate
}

// RoutingInfo identifies which puppet produced a batch of warnings and which guilds may see it.
type RoutingInfo struct {
	Username string
	Server   string
	Routes   []int64 // guild ids
}

// WarningBatch is a set of formatted attack warnings with their routing information.
type WarningBatch struct {
	Routing  RoutingInfo
	Warnings []string
}

// AttackListenerSvc describes the service that polls puppets for incoming attacks.
type AttackListenerSvc interface {
	Start(ctx context.Context)
	Warnings() <-chan WarningBatch
}

// WarningRouterSvc resolves the Discord channels that should receive a batch of warnings.
type WarningRouterSvc interface {
	Route(ctx context.Context, info RoutingInfo) ([]int64, error)
}

// ChannelDirectory looks up which guild a Discord channel belongs to.
type ChannelDirectory interface {
	ChannelGuildID(ctx context.Context, channelID int64) (int64, error)
}
