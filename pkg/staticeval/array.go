package staticeval

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Entry is one key/value pair of an Array. Key is an int64 or a string.
type Entry struct {
	Key   any
	Value any
}

// Array is an ordered PHP array.
// Integer-like string keys are normalized to integers on insert, and
// entries without an explicit key receive the next auto-increment index.
type Array struct {
	entries []Entry
	index   map[any]int
	next    int64
}

// NewArray returns an empty array.
func NewArray() *Array {
	return &Array{index: make(map[any]int)}
}

// Append adds value under the next auto-increment key.
func (a *Array) Append(value any) {
	a.put(a.next, value)
}

// Set stores value under key. An existing key keeps its position.
func (a *Array) Set(key, value any) error {
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	a.put(normalized, value)
	return nil
}

func (a *Array) put(key, value any) {
	if i, ok := a.index[key]; ok {
		a.entries[i].Value = value
	} else {
		a.index[key] = len(a.entries)
		a.entries = append(a.entries, Entry{Key: key, Value: value})
	}

	if n, ok := key.(int64); ok && n >= a.next {
		a.next = n + 1
	}
}

// Get returns the value stored under key.
func (a *Array) Get(key any) (any, bool) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return nil, false
	}
	i, ok := a.index[normalized]
	if !ok {
		return nil, false
	}
	return a.entries[i].Value, true
}

// Len returns the number of entries.
func (a *Array) Len() int {
	return len(a.entries)
}

// Entries returns the entries in insertion order.
func (a *Array) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// IsList reports whether the keys are exactly 0..Len()-1 in order.
func (a *Array) IsList() bool {
	for i, e := range a.entries {
		if n, ok := e.Key.(int64); !ok || n != int64(i) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes lists as JSON arrays and everything else as objects
// with keys in insertion order.
func (a *Array) MarshalJSON() ([]byte, error) {
	if a.IsList() {
		values := make([]any, 0, len(a.entries))
		for _, e := range a.entries {
			values = append(values, JSONValue(e.Value))
		}
		return json.Marshal(values)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range a.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(keyString(e.Key))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(JSONValue(e.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSONValue returns value in a form encoding/json accepts. Infinite and NaN
// floats become their PHP spellings as strings; arrays encode themselves.
func JSONValue(value any) any {
	if f, ok := value.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return formatFloat(f)
	}
	return value
}

func keyString(key any) string {
	if n, ok := key.(int64); ok {
		return strconv.FormatInt(n, 10)
	}
	s, _ := key.(string)
	return s
}

// normalizeKey applies PHP's array key casts.
func normalizeKey(key any) (any, error) {
	switch k := key.(type) {
	case int64:
		return k, nil
	case int:
		return int64(k), nil
	case string:
		if n, ok := decimalKey(k); ok {
			return n, nil
		}
		return k, nil
	case bool:
		if k {
			return int64(1), nil
		}
		return int64(0), nil
	case float64:
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return int64(0), nil
		}
		return int64(k), nil
	case nil:
		return "", nil
	default:
		return nil, ErrIllegalKey
	}
}

// decimalKey reports whether s is a canonical decimal integer such as "7" or
// "-3", which PHP stores as an integer key. "07" and "+3" stay strings.
func decimalKey(s string) (int64, bool) {
	if s == "" || s == "-0" {
		return 0, false
	}
	digits := s
	if digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return 0, false
	}
	for i := range len(digits) {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
