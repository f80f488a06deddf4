package gamedata

import (
	"fmt"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
)

// EncodedStatus is the presentation form of a puppet status.
type EncodedStatus struct {
	Username       string `json:"username"`
	Server         string `json:"server"`
	Connected      string `json:"connected"`
	AttackWarnings bool   `json:"attack_warnings"`
}

// EncodeStatus renders a puppet status for display.
func EncodeStatus(s app.PuppetStatus) EncodedStatus {
	connected := "unknown"
	if s.Connected != nil {
		connected = fmt.Sprintf("%t", *s.Connected)
	}
	return EncodedStatus{
		Username:       s.Username,
		Server:         s.Server,
		Connected:      connected,
		AttackWarnings: s.AttackWarnings,
	}
}

var kingdomNames = map[int]string{
	0: "The Great Empire",
	1: "The Burning Sands",
	2: "The Everwinter Glacier",
	3: "The Fire Peaks",
	4: "The Storm Islands",
}

// KingdomName returns the display name of a kingdom id, or an empty string.
func KingdomName(kid int) string {
	return kingdomNames[kid]
}

// CompoundTime renders a duration in seconds as "1h 2m 3s", dropping the
// leading zero components.
func CompoundTime(seconds int64) string {
	h := seconds / 3600
	m := (seconds / 60) % 60
	s := seconds % 60
	switch {
	case h != 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m != 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
