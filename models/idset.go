package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// IDSet is a set of user ids persisted as a JSON array in a text column.
type IDSet map[uint]struct{}

func NewIDSet(ids ...uint) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

// Add reports false when id was already present.
func (s *IDSet) Add(id uint) bool {
	if *s == nil {
		*s = IDSet{}
	}
	if s.Has(id) {
		return false
	}
	(*s)[id] = struct{}{}
	return true
}

// Remove reports false when id was not present.
func (s *IDSet) Remove(id uint) bool {
	if !s.Has(id) {
		return false
	}
	delete(*s, id)
	return true
}

// Toggle flips membership and reports whether id is present afterwards.
func (s *IDSet) Toggle(id uint) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

func (s IDSet) Len() int { return len(s) }

// Slice returns the members in ascending order.
func (s IDSet) Slice() []uint {
	out := make([]uint, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s IDSet) Clone() IDSet {
	return NewIDSet(s.Slice()...)
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []uint
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

func (IDSet) GormDataType() string { return "text" }

func (s IDSet) Value() (driver.Value, error) {
	b, err := json.Marshal(s.Slice())
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *IDSet) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = IDSet{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("idset: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*s = IDSet{}
		return nil
	}
	return s.UnmarshalJSON(raw)
}
