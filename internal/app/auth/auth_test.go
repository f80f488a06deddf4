package auth

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = "9D61B19DEFFD5A60BA844AF492EC2CC44449C5697B326919703BAC031CAE7F60"

func TestNewSignerRejectsBadKeys(t *testing.T) {
	_, err := NewSigner("not hex")
	assert.Error(t, err)

	_, err = NewSigner("abcd")
	assert.Error(t, err)

	_, err = NewSigner(testSeed)
	assert.NoError(t, err)
}

func TestClientDigest(t *testing.T) {
	s, err := NewSigner(testSeed)
	require.NoError(t, err)

	msg := []byte(`{"command":"search"}`)
	secret := []byte("puppet-password")
	digest := s.ClientDigest(msg, secret)

	mac := hmac.New(sha256.New, secret)
	mac.Write(msg)
	assert.Equal(t, strings.ToUpper(hex.EncodeToString(mac.Sum(nil))), digest)
	assert.Len(t, digest, sha256.Size*2)

	// A different secret must produce a different digest.
	assert.NotEqual(t, digest, s.ClientDigest(msg, []byte("other")))
}

func TestControlDigest(t *testing.T) {
	s, err := NewSigner(testSeed)
	require.NoError(t, err)

	msg := []byte(`{"command":"disconnect"}`)
	digest := s.ControlDigest(msg)
	assert.Equal(t, strings.ToUpper(digest), digest)

	sig, err := hex.DecodeString(digest)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(s.ControlPublicKey(), msg, sig))
}
