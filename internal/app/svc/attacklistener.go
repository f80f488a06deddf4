package svc

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/beldeveloper/go-errors-context"
	"github.com/sirupsen/logrus"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/config"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/gamedata"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/metrics"
)

const warningQueueSize = 16

// Mail search requests for attack threats filter on this message type.
const attackMailType = "gam"

// NewAttackListener creates a new instance of the attack listener service.
func NewAttackListener(comm app.Comm, players []config.Player, cfg config.AttackListener) *AttackListener {
	return &AttackListener{
		comm:     comm,
		players:  players,
		cooldown: time.Duration(cfg.RequestCooldown * float64(time.Second)),
		timeout:  time.Duration(cfg.RequestTimeout * float64(time.Second)),
		out:      make(chan app.WarningBatch, warningQueueSize),
		seen:     make(map[int64]struct{}),
	}
}

// AttackListener polls every enabled puppet's mail for incoming attacks and
// publishes formatted warnings.
type AttackListener struct {
	comm     app.Comm
	players  []config.Player
	cooldown time.Duration
	timeout  time.Duration
	out      chan app.WarningBatch

	mu   sync.Mutex
	seen map[int64]struct{}

	startOnce sync.Once
}

// Warnings exposes the published warning batches.
func (s *AttackListener) Warnings() <-chan app.WarningBatch {
	return s.out
}

// Start launches one polling loop per enabled puppet. Safe to call more than once.
func (s *AttackListener) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		for _, p := range s.players {
			if !p.Services.AttackListener.Enabled {
				continue
			}
			go s.listen(ctx, p)
		}
	})
}

func (s *AttackListener) listen(ctx context.Context, p config.Player) {
	l := logrus.WithFields(logrus.Fields{
		"username": p.Info.Username,
		"server":   p.Info.Server,
	})
	cursor, ok := s.bootstrapCursor(ctx, p)
	if !ok {
		return
	}
	l.WithField("cursor", cursor).Info("attack listener started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cooldown):
		}
		messages, next, err := s.searchMail(ctx, p, cursor, attackMailType)
		if err != nil {
			l.WithError(err).Debug("mail search failed")
			continue
		}
		cursor = next
		var warnings []string
		for _, msg := range messages {
			warnings = append(warnings, s.encodeWarnings(msg)...)
		}
		s.publish(ctx, p, warnings)
	}
}

// bootstrapCursor asks for the current mail index so that only attacks
// arriving after startup are reported. Retries until it succeeds.
func (s *AttackListener) bootstrapCursor(ctx context.Context, p config.Player) (int64, bool) {
	for {
		_, cursor, err := s.searchMail(ctx, p, 0, "")
		if err == nil {
			return cursor, true
		}
		logrus.WithError(err).WithField("username", p.Info.Username).
			Error("failed to fetch the current mail index")
		select {
		case <-ctx.Done():
			return 0, false
		case <-time.After(s.cooldown):
		}
	}
}

// searchMail runs one search command and unpacks the [messages, next_index] response.
func (s *AttackListener) searchMail(
	ctx context.Context,
	p config.Player,
	cursor int64,
	msgType string,
) ([]string, int64, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	payload, err := s.comm.Request(reqCtx, app.CommRequest{
		Username: p.Info.Username,
		Password: p.Info.Password,
		Server:   p.Info.Server,
		Command:  app.CommandSearch,
		Args: map[string]interface{}{
			"start_index": cursor,
			"msg_type":    msgType,
		},
	})
	if err != nil {
		return nil, 0, errors.WrapContext(err, errors.Context{
			Path:   "svc.AttackListener.searchMail.Request",
			Params: errors.Params{"cursor": cursor},
		})
	}
	messages, next, err := unpackSearchResponse(payload)
	return messages, next, errors.WrapContext(err, errors.Context{
		Path:   "svc.AttackListener.searchMail.unpack",
		Params: errors.Params{"cursor": cursor},
	})
}

func unpackSearchResponse(payload json.RawMessage) ([]string, int64, error) {
	var pair []json.RawMessage
	if json.Unmarshal(payload, &pair) != nil || len(pair) != 2 {
		return nil, 0, errors.WrapContext(errtype.ErrBadInput, errors.Context{
			Path: "svc.unpackSearchResponse",
		})
	}
	var messages []string
	var next int64
	if json.Unmarshal(pair[0], &messages) != nil || json.Unmarshal(pair[1], &next) != nil {
		return nil, 0, errors.WrapContext(errtype.ErrBadInput, errors.Context{
			Path: "svc.unpackSearchResponse",
		})
	}
	return messages, next, nil
}

// encodeWarnings decodes one raw mail message and formats the attacks that
// have not been reported yet.
func (s *AttackListener) encodeWarnings(msg string) []string {
	attacks, err := gamedata.DecodeAttackMail(msg)
	if err != nil {
		logrus.WithError(err).Debug("failed to decode attack mail")
		return nil
	}
	var warnings []string
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range attacks {
		if _, reported := s.seen[a.ID]; reported {
			continue
		}
		s.seen[a.ID] = struct{}{}
		warnings = append(warnings, gamedata.FormatWarning(a))
	}
	return warnings
}

// publish delivers the batch to the output channel, blocking until a
// consumer takes it or the context is canceled.
func (s *AttackListener) publish(ctx context.Context, p config.Player, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	metrics.AttackWarnings.WithLabelValues(p.Info.Username, p.Info.Server).
		Add(float64(len(warnings)))
	batch := app.WarningBatch{
		Routing: app.RoutingInfo{
			Username: p.Info.Username,
			Server:   p.Info.Server,
			Routes:   p.Visibility,
		},
		Warnings: warnings,
	}
	select {
	case s.out <- batch:
	case <-ctx.Done():
	}
}
