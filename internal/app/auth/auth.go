// Package auth signs requests for the puppet API server. Regular commands are
// authenticated with an HMAC keyed by the puppet's password; control commands
// (disconnect, reconnect) carry an Ed25519 signature made with the operator's
// control key.
package auth

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/beldeveloper/go-errors-context"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
)

// NewSigner creates a signer from the hex-encoded Ed25519 seed of the control key.
func NewSigner(controlKeyHex string) (Signer, error) {
	seed, err := hex.DecodeString(controlKeyHex)
	if err != nil {
		return Signer{}, errors.WrapContext(err, errors.Context{Path: "auth.NewSigner.DecodeString"})
	}
	if len(seed) != ed25519.SeedSize {
		return Signer{}, errors.WrapContext(errtype.ErrBadInput, errors.Context{
			Path:   "auth.NewSigner",
			Params: errors.Params{"seedLen": len(seed)},
		})
	}
	return Signer{controlKey: ed25519.NewKeyFromSeed(seed)}, nil
}

// Signer produces the request digests understood by the puppet API server.
type Signer struct {
	controlKey ed25519.PrivateKey
}

// ClientDigest signs a message with the puppet's own secret.
func (s Signer) ClientDigest(message, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// ControlDigest signs a message with the operator control key.
func (s Signer) ControlDigest(message []byte) string {
	return strings.ToUpper(hex.EncodeToString(ed25519.Sign(s.controlKey, message)))
}

// ControlPublicKey exposes the public half of the control key.
func (s Signer) ControlPublicKey() ed25519.PublicKey {
	return s.controlKey.Public().(ed25519.PublicKey)
}
