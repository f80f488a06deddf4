package app

import "context"

// PuppetStatus is a model that represents the observed state of one puppet.
type PuppetStatus struct {
	Username       string
	Server         string
	Connected      *bool // nil when the state could not be determined
	AttackWarnings bool
}

// VisibleStatus pairs a puppet status with the guilds that are allowed to see it.
type VisibleStatus struct {
	Status     PuppetStatus
	Visibility []int64 // guild ids
}

// StatusMonitorSvc describes the service that queries the state of all configured puppets.
type StatusMonitorSvc interface {
	Statuses(ctx context.Context) ([]VisibleStatus, error)
}
