// Package comm maintains the websocket session with the puppet API server and
// correlates signed requests with their responses.
package comm

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/beldeveloper/go-errors-context"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/auth"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/config"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/metrics"
)

const requestQueueSize = 64

// NewClient creates a new client of the puppet API server.
func NewClient(cfg config.Server, signer auth.Signer) *Client {
	return &Client{
		url:      cfg.URL,
		cooldown: time.Duration(cfg.ReconnectCooldown * float64(time.Second)),
		signer:   signer,
		queue:    make(chan []byte, requestQueueSize),
		waiters:  make(map[int64]chan response),
	}
}

// Client implements app.Comm over a single websocket connection that is
// re-established after every failure. Requests survive reconnects: the queue
// is drained by whichever connection is alive.
type Client struct {
	url      string
	cooldown time.Duration
	signer   auth.Signer
	queue    chan []byte

	mu      sync.Mutex
	nextID  int64
	waiters map[int64]chan response

	startOnce sync.Once
}

type response struct {
	payload json.RawMessage
	err     string
}

type requestContent struct {
	Username  string                 `json:"username"`
	Server    string                 `json:"server"`
	Command   string                 `json:"command"`
	Args      map[string]interface{} `json:"args"`
	Timestamp float64                `json:"timestamp"`
	MsgID     int64                  `json:"msg_id"`
}

type requestFrame struct {
	Content json.RawMessage `json:"content"`
	Digest  string          `json:"digest"`
}

type responseFrame struct {
	Content json.RawMessage `json:"content"`
	MsgID   int64           `json:"msg_id"`
}

type responseContent struct {
	Response json.RawMessage `json:"response"`
	Error    *string         `json:"error"`
}

// Start runs the connection loop in the background. Safe to call more than once.
func (c *Client) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		go c.connectLoop(ctx)
	})
}

// Request sends one command to the puppet API server and waits for the
// matching response or the context deadline.
func (c *Client) Request(ctx context.Context, r app.CommRequest) (json.RawMessage, error) {
	msgID := c.newMsgID()
	frame, err := c.buildFrame(r, msgID)
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{
			Path:   "comm.Client.Request.buildFrame",
			Params: errors.Params{"command": r.Command},
		})
	}

	waiter := make(chan response, 1)
	c.mu.Lock()
	c.waiters[msgID] = waiter
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.waiters, msgID)
		c.mu.Unlock()
	}()

	select {
	case c.queue <- frame:
	case <-ctx.Done():
		metrics.APIRequests.WithLabelValues(r.Command, metrics.OutcomeTimeout).Inc()
		return nil, errors.WrapContext(ctx.Err(), errors.Context{
			Path:   "comm.Client.Request.enqueue",
			Params: errors.Params{"command": r.Command},
		})
	}

	select {
	case resp := <-waiter:
		if resp.err != "" {
			metrics.APIRequests.WithLabelValues(r.Command, metrics.OutcomeRejected).Inc()
			return nil, errors.WrapContext(errtype.ErrRequestRejected, errors.Context{
				Path:   "comm.Client.Request",
				Params: errors.Params{"command": r.Command, "error": resp.err},
			})
		}
		metrics.APIRequests.WithLabelValues(r.Command, metrics.OutcomeOK).Inc()
		return resp.payload, nil
	case <-ctx.Done():
		metrics.APIRequests.WithLabelValues(r.Command, metrics.OutcomeTimeout).Inc()
		return nil, errors.WrapContext(ctx.Err(), errors.Context{
			Path:   "comm.Client.Request.wait",
			Params: errors.Params{"command": r.Command, "msgId": msgID},
		})
	}
}

func (c *Client) connectLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		metrics.APIReconnects.Inc()
		logrus.WithField("url", c.url).Info("connecting to the puppet API server")
		err := c.connect(ctx)
		if err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("puppet API connection failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cooldown):
		}
	}
}

func (c *Client) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "comm.Client.connect.dial",
			Params: errors.Params{"url": c.url},
		})
	}
	defer conn.Close()

	failed := make(chan error, 2)
	sendCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		failed <- c.sendLoop(sendCtx, conn)
	}()
	go func() {
		failed <- c.recvLoop(conn)
	}()

	select {
	case err = <-failed:
	case <-ctx.Done():
		err = ctx.Err()
	}
	return errors.WrapContext(err, errors.Context{Path: "comm.Client.connect"})
}

func (c *Client) sendLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame := <-c.queue:
			err := conn.WriteMessage(websocket.TextMessage, frame)
			if err != nil {
				return errors.WrapContext(err, errors.Context{Path: "comm.Client.sendLoop.WriteMessage"})
			}
		}
	}
}

func (c *Client) recvLoop(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return errors.WrapContext(err, errors.Context{Path: "comm.Client.recvLoop.ReadMessage"})
		}
		c.dispatch(data)
	}
}

// dispatch routes one server frame to the waiter registered for its msg id.
// Undecodable frames and unknown ids are dropped.
func (c *Client) dispatch(data []byte) {
	var frame responseFrame
	if json.Unmarshal(data, &frame) != nil {
		logrus.Debug("dropping undecodable frame from the puppet API server")
		return
	}
	var content responseContent
	if json.Unmarshal(frame.Content, &content) != nil {
		logrus.WithField("msgId", frame.MsgID).Debug("dropping frame with undecodable content")
		return
	}
	c.mu.Lock()
	waiter := c.waiters[frame.MsgID]
	c.mu.Unlock()
	if waiter == nil {
		return
	}
	resp := response{payload: content.Response}
	if content.Error != nil {
		resp.err = *content.Error
	}
	select {
	case waiter <- resp:
	default:
	}
}

// buildFrame marshals and signs the request content. The digest is computed
// over the exact bytes embedded in the frame, so the server verifies what was
// actually sent.
func (c *Client) buildFrame(r app.CommRequest, msgID int64) ([]byte, error) {
	args := r.Args
	if args == nil {
		args = map[string]interface{}{}
	}
	content, err := json.Marshal(requestContent{
		Username:  r.Username,
		Server:    r.Server,
		Command:   r.Command,
		Args:      args,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		MsgID:     msgID,
	})
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{Path: "comm.Client.buildFrame.marshalContent"})
	}
	var digest string
	switch r.Command {
	case app.CommandDisconnect, app.CommandReconnect:
		digest = c.signer.ControlDigest(content)
	default:
		digest = c.signer.ClientDigest(content, []byte(r.Password))
	}
	frame, err := json.Marshal(requestFrame{Content: content, Digest: digest})
	return frame, errors.WrapContext(err, errors.Context{Path: "comm.Client.buildFrame.marshalFrame"})
}

func (c *Client) newMsgID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	return id
}
