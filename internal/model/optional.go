package model

import "encoding/json"

// Optional is a field of a partial update: either unset or set to a value.
// When decoded from JSON, an absent key leaves it unset and any present key
// (including null) sets it.
type Optional[T any] struct {
	Set   bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var v T
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}
	o.Set = true
	o.Value = v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
