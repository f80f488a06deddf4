// Package pathtree implements read and write operations on nested
// map[string]interface{} documents addressed by a path of keys.
package pathtree

import (
	"github.com/beldeveloper/go-errors-context"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
)

// Get returns the value at the given path. An empty path refers to the whole document.
func Get(doc map[string]interface{}, path []string) (interface{}, error) {
	var current interface{} = doc
	for _, key := range path {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, errors.WrapContext(errtype.ErrInvalidPath, errors.Context{
				Path:   "pathtree.Get",
				Params: errors.Params{"key": key},
			})
		}
		current, ok = obj[key]
		if !ok {
			return nil, errors.WrapContext(errtype.ErrInvalidPath, errors.Context{
				Path:   "pathtree.Get",
				Params: errors.Params{"key": key},
			})
		}
	}
	return current, nil
}

// Set overwrites the value at the given path, creating intermediate objects as
// needed, and returns the resulting document. Setting at the empty path
// replaces the whole document and requires an object value.
func Set(doc map[string]interface{}, path []string, value interface{}) (map[string]interface{}, error) {
	if len(path) == 0 {
		obj, ok := value.(map[string]interface{})
		if !ok {
			return nil, errors.WrapContext(errtype.ErrBadInput, errors.Context{Path: "pathtree.Set"})
		}
		return obj, nil
	}
	if doc == nil {
		doc = make(map[string]interface{})
	}
	current := doc
	for _, key := range path[:len(path)-1] {
		next, exists := current[key]
		if !exists {
			child := make(map[string]interface{})
			current[key] = child
			current = child
			continue
		}
		obj, ok := next.(map[string]interface{})
		if !ok {
			return nil, errors.WrapContext(errtype.ErrInvalidPath, errors.Context{
				Path:   "pathtree.Set",
				Params: errors.Params{"key": key},
			})
		}
		current = obj
	}
	current[path[len(path)-1]] = value
	return doc, nil
}

// Delete removes the value at the given path and returns the resulting
// document. Deleting at the empty path clears the whole document; deleting a
// missing key fails.
func Delete(doc map[string]interface{}, path []string) (map[string]interface{}, error) {
	if len(path) == 0 {
		return make(map[string]interface{}), nil
	}
	current := doc
	for _, key := range path[:len(path)-1] {
		obj, ok := current[key].(map[string]interface{})
		if !ok {
			return nil, errors.WrapContext(errtype.ErrInvalidPath, errors.Context{
				Path:   "pathtree.Delete",
				Params: errors.Params{"key": key},
			})
		}
		current = obj
	}
	key := path[len(path)-1]
	if _, exists := current[key]; !exists {
		return nil, errors.WrapContext(errtype.ErrInvalidPath, errors.Context{
			Path:   "pathtree.Delete",
			Params: errors.Params{"key": key},
		})
	}
	delete(current, key)
	return doc, nil
}
