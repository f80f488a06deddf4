package svc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/config"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/gamedata"
)

type fakeComm struct {
	mu      sync.Mutex
	handler func(r app.CommRequest) (json.RawMessage, error)
}

func (f *fakeComm) Start(context.Context) {}

func (f *fakeComm) Request(_ context.Context, r app.CommRequest) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handler(r)
}

func testPlayer(enabled bool) config.Player {
	return config.Player{
		Info: config.PlayerInfo{Server: "EmpireEx_3", Username: "scout", Password: "secret"},
		Services: config.PlayerServices{
			AttackListener: config.ServiceFlag{Enabled: enabled},
		},
		Visibility: []int64{1234, 5678},
	}
}

// gamFrame builds a raw attack mail message carrying one attack per id.
func gamFrame(ids ...int64) string {
	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, fmt.Sprintf(`{
			"GS": 10,
			"M": {
				"MID": %d, "TT": 160, "PT": 100, "TID": 7, "OID": 9,
				"TA": [0, 1, 2, 0, 0, 0, 0, 0, 0, 0, "Castle"],
				"SA": [0, 3, 4, 0, 0, 0, 0, 0, 0, 0, "Camp"]
			}
		}`, id))
	}
	body := fmt.Sprintf(
		`{"O": [{"OID": 7, "N": "Defender"}, {"OID": 9, "N": "Raider"}], "M": [%s]}`,
		strings.Join(entries, ","),
	)
	return "mx%gam%0%0%0%" + body
}

func expectedWarning(id int64) string {
	return gamedata.FormatWarning(app.Attack{
		ID:                 id,
		RemainingTime:      60,
		TargetX:            1,
		TargetY:            2,
		TargetName:         "Castle",
		TargetPlayerName:   "Defender",
		AttackerX:          3,
		AttackerY:          4,
		AttackerName:       "Camp",
		AttackerPlayerName: "Raider",
		TroopEstimate:      10,
	})
}

func TestAttackListenerDedupesAndRoutes(t *testing.T) {
	responses := []string{
		`[[], 5]`, // bootstrap: current index only
		fmt.Sprintf(`[[%q], 7]`, gamFrame(101)),
		fmt.Sprintf(`[[%q, %q], 9]`, gamFrame(101), gamFrame(102)),
	}
	call := 0
	comm := &fakeComm{handler: func(r app.CommRequest) (json.RawMessage, error) {
		require.Equal(t, app.CommandSearch, r.Command)
		if call == 0 {
			assert.Equal(t, "", r.Args["msg_type"])
			assert.Equal(t, int64(0), r.Args["start_index"])
		} else {
			assert.Equal(t, "gam", r.Args["msg_type"])
		}
		resp := `[[], 9]`
		if call < len(responses) {
			resp = responses[call]
		}
		call++
		return json.RawMessage(resp), nil
	}}

	listener := NewAttackListener(comm, []config.Player{testPlayer(true)}, config.AttackListener{
		RequestCooldown: 0.001,
		RequestTimeout:  1,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener.Start(ctx)

	batch := recvBatch(t, listener)
	assert.Equal(t, app.RoutingInfo{
		Username: "scout",
		Server:   "EmpireEx_3",
		Routes:   []int64{1234, 5678},
	}, batch.Routing)
	assert.Equal(t, []string{expectedWarning(101)}, batch.Warnings)

	// The second batch repeats attack 101; only 102 may come through.
	batch = recvBatch(t, listener)
	assert.Equal(t, []string{expectedWarning(102)}, batch.Warnings)
}

func TestAttackListenerKeepsBatchesWhenConsumerLags(t *testing.T) {
	var (
		mu   sync.Mutex
		call int64
	)
	comm := &fakeComm{handler: func(app.CommRequest) (json.RawMessage, error) {
		mu.Lock()
		defer mu.Unlock()
		if call == 0 {
			call++
			return json.RawMessage(`[[], 5]`), nil
		}
		resp := fmt.Sprintf(`[[%q], %d]`, gamFrame(100+call), 5+call)
		call++
		return json.RawMessage(resp), nil
	}}

	listener := NewAttackListener(comm, []config.Player{testPlayer(true)}, config.AttackListener{
		RequestCooldown: 0.001,
		RequestTimeout:  1,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener.Start(ctx)

	// Let the producer run well past the queue capacity before reading anything.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return call >= warningQueueSize+2
	}, 2*time.Second, time.Millisecond)

	for i := int64(0); i < warningQueueSize+2; i++ {
		batch := recvBatch(t, listener)
		assert.Equal(t, []string{expectedWarning(101 + i)}, batch.Warnings)
	}
}

func TestAttackListenerSkipsDisabledPlayers(t *testing.T) {
	comm := &fakeComm{handler: func(app.CommRequest) (json.RawMessage, error) {
		t.Error("disabled player must not be polled")
		return nil, nil
	}}
	listener := NewAttackListener(comm, []config.Player{testPlayer(false)}, config.AttackListener{
		RequestCooldown: 0.001,
		RequestTimeout:  1,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener.Start(ctx)

	select {
	case batch := <-listener.Warnings():
		t.Errorf("unexpected batch: %v", batch)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnpackSearchResponse(t *testing.T) {
	messages, next, err := unpackSearchResponse(json.RawMessage(`[["a", "b"], 42]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, messages)
	assert.Equal(t, int64(42), next)

	for _, payload := range []string{`[]`, `[1, 2]`, `[["a"], "x"]`, `"nope"`, `[["a"], 1, 2]`} {
		_, _, err = unpackSearchResponse(json.RawMessage(payload))
		assert.Error(t, err, "payload=%s", payload)
	}
}

func recvBatch(t *testing.T, listener *AttackListener) app.WarningBatch {
	t.Helper()
	select {
	case batch := <-listener.Warnings():
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a warning batch")
		return app.WarningBatch{}
	}
}
