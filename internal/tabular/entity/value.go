package entity

import (
	"encoding/json"
	"strconv"
)

type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "null"
	}
}

// Value is a single typed cell: Null, Number or Text. The zero Value is Null.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

func NullValue() Value {
	return Value{kind: KindNull}
}

func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Number returns the numeric payload and whether v is a Number.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Text returns the text payload and whether v is Text.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// IsEmpty reports whether v is Null or an empty Text.
func (v Value) IsEmpty() bool {
	return v.kind == KindNull || (v.kind == KindText && v.text == "")
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	default:
		return true
	}
}

// String renders the value the way it is shown in samples and used for
// distinct counting. Null renders as an empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case nil:
		*v = NullValue()
	case float64:
		*v = NumberValue(t)
	case string:
		*v = TextValue(t)
	default:
		*v = TextValue(string(data))
	}

	return nil
}

// Record is one data row keyed by column name. It always holds exactly one
// entry per header column.
type Record map[string]Value
