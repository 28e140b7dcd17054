// Package feed holds the wire shape of the external tyre feed.
package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotArray is returned when the feed document is not a JSON array.
var ErrNotArray = errors.New("feed: document is not a JSON array")

// Record is one feed object. Field names follow the supplier's export.
type Record struct {
	Brand          Text   `json:"Marca"`
	Model          Text   `json:"Model"`
	Size           Text   `json:"Dimensiune"`
	ProductType    Text   `json:"TipProdus"`
	Width          Number `json:"Latime"`
	Height         Number `json:"Inaltime"`
	RimDiameter    Number `json:"Diametru"`
	Season         Text   `json:"Sezon"`
	TreadDepth     Number `json:"mmProfil"`
	DOT            Text   `json:"DOT"`
	LoadIndex      Number `json:"IndiceIncarcare"`
	SpeedIndex     Text   `json:"IndiceViteza"`
	SKU            Text   `json:"SKU"`
	ListPrice      Number `json:"Pret_Lista"`
	Stock          Number `json:"stoc"`
	Quality        Text   `json:"Calitate"`
	Tags           Text   `json:"Etichete"`
	Title          Text   `json:"Titlu"`
	TitleLower     Text   `json:"titlu"`
	Destination    Text   `json:"Destinatie"`
	Description    Text   `json:"Descriere"`
	Characteristic Text   `json:"Caracteristici"`

	// Raw is the untouched object as it appeared in the feed.
	Raw json.RawMessage `json:"-"`
}

// Decode parses a feed document. Objects that cannot be decoded into a
// Record are reported through bad and left out of the result.
func Decode(data []byte, bad func(index int, err error)) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		var r Record
		if err := json.Unmarshal(item, &r); err != nil {
			if bad != nil {
				bad(i, err)
			}
			continue
		}
		r.Raw = item
		records = append(records, r)
	}
	return records, nil
}

// Text accepts a JSON string, number or boolean and keeps its trimmed text.
// Null and blank values are not Valid.
type Text struct {
	Value string
	Valid bool
}

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	switch b[0] {
	case '"':
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	case '{', '[':
		return fmt.Errorf("feed: expected scalar, got %s", b)
	default:
		s = string(b)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	*t = Text{Value: s, Valid: true}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// Or returns the value, or fallback when the text is not Valid.
func (t Text) Or(fallback string) string {
	if t.Valid {
		return t.Value
	}
	return fallback
}

// Ptr returns nil for invalid text.
func (t Text) Ptr() *string {
	if !t.Valid {
		return nil
	}
	v := t.Value
	return &v
}

// Number accepts JSON numbers and numeric strings ("16", "205.5", "6,5").
// Null, blank, non-numeric and non-finite ("NaN", "Inf") values are not
// Valid; Set records whether the field carried anything at all.
type Number struct {
	Value float64
	Valid bool
	Set   bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	switch b[0] {
	case '"':
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	case '{', '[':
		return fmt.Errorf("feed: expected number, got %s", b)
	default:
		s = string(b)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n.Set = true
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.Value = v
	n.Valid = true
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Int returns the value as an int. ok is false when the number is not Valid
// or is not a whole number within int32 range, so "205.7" is rejected rather
// than read as 205.
func (n Number) Int() (int, bool) {
	if !n.Valid || n.Value != math.Trunc(n.Value) || math.Abs(n.Value) > math.MaxInt32 {
		return 0, false
	}
	return int(n.Value), true
}

// PositiveInt returns a pointer to the integer value, or nil for zero,
// negative and missing numbers.
func (n Number) PositiveInt() *int {
	if !n.Valid || n.Value <= 0 {
		return nil
	}
	v := int(n.Value)
	return &v
}

// PositiveFloat returns nil for zero, negative and missing numbers.
func (n Number) PositiveFloat() *float64 {
	if !n.Valid || n.Value <= 0 {
		return nil
	}
	v := n.Value
	return &v
}

// OrZero returns the value, or 0 when the number is not Valid.
func (n Number) OrZero() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}
