package settings

import (
	"bytes"
	"encoding/json"

	"go.yaml.in/yaml/v3"
)

// Lockable wraps a client setting with a lock flag. A locked value is
// enforced by the server; the client must hide the corresponding control.
//
// On the wire a Lockable accepts either the full object form
// ({locked: true, value: ...}) or a bare value, which means unlocked. It
// always serializes in object form.
type Lockable[T any] struct {
	Locked bool `json:"locked" yaml:"locked"`
	Value  T    `json:"value" yaml:"value"`
}

// Locked returns a locked wrapper around v.
func Locked[T any](v T) *Lockable[T] {
	return &Lockable[T]{Locked: true, Value: v}
}

// Unlocked returns an unlocked wrapper around v.
func Unlocked[T any](v T) *Lockable[T] {
	return &Lockable[T]{Value: v}
}

func (l *Lockable[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			Locked bool            `json:"locked"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		l.Locked = obj.Locked
		if obj.Value == nil {
			return nil
		}
		return json.Unmarshal(obj.Value, &l.Value)
	}

	l.Locked = false
	return json.Unmarshal(trimmed, &l.Value)
}

func (l *Lockable[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var obj struct {
			Locked bool      `yaml:"locked"`
			Value  yaml.Node `yaml:"value"`
		}
		if err := node.Decode(&obj); err != nil {
			return err
		}
		l.Locked = obj.Locked
		if obj.Value.Kind == 0 {
			return nil
		}
		return obj.Value.Decode(&l.Value)
	}

	l.Locked = false
	return node.Decode(&l.Value)
}
