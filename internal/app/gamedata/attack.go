// Package gamedata decodes the game server payloads relayed by the puppet API
// and renders them for users.
package gamedata

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beldeveloper/go-errors-context"
	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
)

// Raw attack mail is a %-separated frame; this field carries the JSON body.
const mailPayloadField = 5

type mailBody struct {
	Players []mailPlayer      `json:"O"`
	Entries []json.RawMessage `json:"M"`
}

type mailPlayer struct {
	ID   int64  `json:"OID"`
	Name string `json:"N"`
}

type mailEntry struct {
	TroopEstimate *int64          `json:"GS"`
	GarrisonAlert json.RawMessage `json:"GA"`
	Movement      mailMovement    `json:"M"`
}

type mailMovement struct {
	ID         int64             `json:"MID"`
	ArrivalAt  int64             `json:"TT"`
	ReportedAt int64             `json:"PT"`
	TargetID   int64             `json:"TID"`
	AttackerID int64             `json:"OID"`
	TargetArea []json.RawMessage `json:"TA"`
	SourceArea []json.RawMessage `json:"SA"`
}

// DecodeAttackMail extracts the incoming attacks from one raw "gam" message.
// Entries that are not attack threats or are malformed are skipped.
func DecodeAttackMail(raw string) ([]app.Attack, error) {
	parts := strings.Split(raw, "%")
	if len(parts) <= mailPayloadField {
		return nil, errors.WrapContext(errtype.ErrBadInput, errors.Context{
			Path:   "gamedata.DecodeAttackMail",
			Params: errors.Params{"parts": len(parts)},
		})
	}
	var body mailBody
	err := json.Unmarshal([]byte(parts[mailPayloadField]), &body)
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{Path: "gamedata.DecodeAttackMail.Unmarshal"})
	}
	players := make(map[int64]string, len(body.Players))
	for _, p := range body.Players {
		players[p.ID] = p.Name
	}
	attacks := make([]app.Attack, 0, len(body.Entries))
	for _, rawEntry := range body.Entries {
		a, ok := decodeEntry(rawEntry, players)
		if ok {
			attacks = append(attacks, a)
		}
	}
	return attacks, nil
}

func decodeEntry(raw json.RawMessage, players map[int64]string) (app.Attack, bool) {
	var a app.Attack
	var entry mailEntry
	if json.Unmarshal(raw, &entry) != nil {
		return a, false
	}
	// Only entries flagged with a troop estimate or a garrison alert are attack threats.
	if entry.TroopEstimate == nil && entry.GarrisonAlert == nil {
		return a, false
	}
	targetX, targetY, targetName, ok := decodeArea(entry.Movement.TargetArea)
	if !ok {
		return a, false
	}
	attackerX, attackerY, attackerName, ok := decodeArea(entry.Movement.SourceArea)
	if !ok {
		return a, false
	}
	targetPlayer, ok := players[entry.Movement.TargetID]
	if !ok {
		return a, false
	}
	attackerPlayer, ok := players[entry.Movement.AttackerID]
	if !ok {
		return a, false
	}
	a = app.Attack{
		ID:                 entry.Movement.ID,
		RemainingTime:      entry.Movement.ArrivalAt - entry.Movement.ReportedAt,
		TargetX:            targetX,
		TargetY:            targetY,
		TargetName:         targetName,
		TargetPlayerName:   targetPlayer,
		AttackerX:          attackerX,
		AttackerY:          attackerY,
		AttackerName:       attackerName,
		AttackerPlayerName: attackerPlayer,
		TroopEstimate:      -1,
	}
	if entry.TroopEstimate != nil {
		a.TroopEstimate = *entry.TroopEstimate
	}
	return a, true
}

// decodeArea reads the coordinates (indexes 1, 2) and the castle name (index 10)
// out of a game area tuple.
func decodeArea(area []json.RawMessage) (x, y int, name string, ok bool) {
	if len(area) <= 10 {
		return 0, 0, "", false
	}
	var fx, fy float64
	if json.Unmarshal(area[1], &fx) != nil || json.Unmarshal(area[2], &fy) != nil {
		return 0, 0, "", false
	}
	if json.Unmarshal(area[10], &name) != nil {
		return 0, 0, "", false
	}
	return int(fx), int(fy), name, true
}

// FormatWarning renders an attack as a user-facing warning message.
func FormatWarning(a app.Attack) string {
	components := []string{
		fmt.Sprintf("Incoming attack in approx. %s", CompoundTime(a.RemainingTime)),
		fmt.Sprintf("at %q of %q", a.TargetName, a.TargetPlayerName),
		fmt.Sprintf("(%d:%d)", a.TargetX, a.TargetY),
		fmt.Sprintf("from %q of %q", a.AttackerName, a.AttackerPlayerName),
		fmt.Sprintf("(%d:%d)", a.AttackerX, a.AttackerY),
	}
	if a.TroopEstimate != -1 {
		components = append(components, fmt.Sprintf("with approx. %d troop(s)", a.TroopEstimate))
	}
	return strings.Join(components, " ")
}
