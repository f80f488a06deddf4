package pathtree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
)

func TestSetCreatesIntermediateObjects(t *testing.T) {
	doc, err := Set(map[string]interface{}{}, []string{"services", "attack_listener", "enabled"}, true)
	require.NoError(t, err)

	v, err := Get(doc, []string{"services", "attack_listener", "enabled"})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestSetOverwritesLeaf(t *testing.T) {
	doc := map[string]interface{}{"key": map[string]interface{}{"a": 1.0}}
	doc, err := Set(doc, []string{"key"}, "replaced")
	require.NoError(t, err)

	v, err := Get(doc, []string{"key"})
	require.NoError(t, err)
	assert.Equal(t, "replaced", v)
}

func TestSetEmptyPathReplacesDocument(t *testing.T) {
	doc := map[string]interface{}{"old": 1.0}
	doc, err := Set(doc, nil, map[string]interface{}{"new": 2.0})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"new": 2.0}, doc)

	_, err = Set(doc, nil, "not an object")
	assert.Error(t, err)
}

func TestSetThroughNonObjectFails(t *testing.T) {
	doc := map[string]interface{}{"key": "scalar"}
	_, err := Set(doc, []string{"key", "sub"}, 1)
	assert.True(t, errors.Is(err, errtype.ErrInvalidPath))
}

func TestDelete(t *testing.T) {
	doc := map[string]interface{}{
		"a": map[string]interface{}{"b": 1.0, "c": 2.0},
	}
	doc, err := Delete(doc, []string{"a", "b"})
	require.NoError(t, err)

	_, err = Get(doc, []string{"a", "b"})
	assert.True(t, errors.Is(err, errtype.ErrInvalidPath))
	_, err = Get(doc, []string{"a", "c"})
	assert.NoError(t, err)
}

func TestDeleteMissingKeyFails(t *testing.T) {
	doc := map[string]interface{}{"a": 1.0}
	_, err := Delete(doc, []string{"b"})
	assert.True(t, errors.Is(err, errtype.ErrInvalidPath))
}

func TestDeleteEmptyPathClears(t *testing.T) {
	doc := map[string]interface{}{"a": 1.0}
	doc, err := Delete(doc, nil)
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestGetEmptyPathReturnsDocument(t *testing.T) {
	doc := map[string]interface{}{"a": 1.0}
	v, err := Get(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, doc, v)
}
