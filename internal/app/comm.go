package app

import (
	"context"
	"encoding/json"
)

const (
	// CommandLogin logs a puppet into the game server.
	CommandLogin = "login"
	// CommandSend sends a raw message through a puppet's game connection.
	CommandSend = "send"
	// CommandSearch searches a puppet's received messages.
	CommandSearch = "search"
	// CommandInfo reads a runtime property of a puppet.
	CommandInfo = "info"
	// CommandDisconnect forces a puppet offline. Requires the control key.
	CommandDisconnect = "disconnect"
	// CommandReconnect forces a puppet to reconnect. Requires the control key.
	CommandReconnect = "reconnect"
)

// CommRequest is a single command addressed to one puppet on the API server.
type CommRequest struct {
	Username string
	Password string
	Server   string
	Command  string
	Args     map[string]interface{}
}

// Comm describes the client of the puppet API server.
type Comm interface {
	Start(ctx context.Context)
	Request(ctx context.Context, r CommRequest) (json.RawMessage, error)
}
