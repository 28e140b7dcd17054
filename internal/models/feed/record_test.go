package feed

import (
	"errors"
	"testing"
)

func TestDecode_NotArray(t *testing.T) {
	for _, doc := range []string{``, `{"Marca":"x"}`, `  "abc"`} {
		if _, err := Decode([]byte(doc), nil); !errors.Is(err, ErrNotArray) {
			t.Errorf("Decode(%q) error = %v, want ErrNotArray", doc, err)
		}
	}
}

func TestDecode_FlexibleScalars(t *testing.T) {
	doc := `[
	  {"Marca":" Michelin ","Model":"Primacy 4","Latime":205,"Inaltime":"55","Diametru":"16",
	   "SKU":12345,"Pret_Lista":"450,50","stoc":"","mmProfil":null,"DOT":2023}
	]`

	records, err := Decode([]byte(doc), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]

	if r.Brand.Value != "Michelin" || !r.Brand.Valid {
		t.Errorf("brand not trimmed: %+v", r.Brand)
	}
	if w, ok := r.Width.Int(); !ok || w != 205 {
		t.Errorf("width = %d,%v", w, ok)
	}
	if h, ok := r.Height.Int(); !ok || h != 55 {
		t.Errorf("height from string = %d,%v", h, ok)
	}
	if r.SKU.Value != "12345" {
		t.Errorf("numeric SKU should become text, got %q", r.SKU.Value)
	}
	if r.ListPrice.Value != 450.5 {
		t.Errorf("decimal comma price = %v", r.ListPrice.Value)
	}
	if r.Stock.Valid || r.Stock.Set {
		t.Errorf("empty stock should be unset: %+v", r.Stock)
	}
	if r.TreadDepth.PositiveFloat() != nil {
		t.Error("null depth should give nil")
	}
	if r.DOT.Value != "2023" {
		t.Errorf("DOT = %q", r.DOT.Value)
	}
	if len(r.Raw) == 0 {
		t.Error("raw payload not kept")
	}
}

func TestDecode_UnparseableNumber(t *testing.T) {
	records, err := Decode([]byte(`[{"Latime":"abc"}]`), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	w := records[0].Width
	if w.Valid {
		t.Error("non-numeric width must not be valid")
	}
	if !w.Set {
		t.Error("non-numeric width was present and should be marked set")
	}
}

func TestDecode_BadObjectReported(t *testing.T) {
	var badIdx []int
	records, err := Decode([]byte(`[{"Marca":"A"}, 42, {"Marca":{"x":1}}]`), func(i int, _ error) {
		badIdx = append(badIdx, i)
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 good record, got %d", len(records))
	}
	if len(badIdx) != 2 || badIdx[0] != 1 || badIdx[1] != 2 {
		t.Errorf("bad indexes = %v", badIdx)
	}
}

func TestDecode_NonFiniteNumbers(t *testing.T) {
	for _, raw := range []string{`"NaN"`, `"nan"`, `"Inf"`, `"-Inf"`, `"Infinity"`, `"+infinity"`} {
		records, err := Decode([]byte(`[{"Diametru":`+raw+`}]`), nil)
		if err != nil {
			t.Fatalf("Decode(%s): %v", raw, err)
		}
		d := records[0].RimDiameter
		if d.Valid {
			t.Errorf("%s: non-finite number must not be valid, got %v", raw, d.Value)
		}
		if !d.Set {
			t.Errorf("%s: value was present and should be marked set", raw)
		}
		if d.OrZero() != 0 || d.PositiveFloat() != nil {
			t.Errorf("%s: expected zero fallbacks, got %v / %v", raw, d.OrZero(), d.PositiveFloat())
		}
	}
}

func TestNumber_Int(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{`205`, 205, true},
		{`"55"`, 55, true},
		{`"16,0"`, 16, true},
		{`"205.7"`, 0, false},
		{`"6,5"`, 0, false},
		{`1e30`, 0, false},
		{`"abc"`, 0, false},
		{`null`, 0, false},
	}

	for _, tt := range tests {
		records, err := Decode([]byte(`[{"Latime":`+tt.raw+`}]`), nil)
		if err != nil {
			t.Fatalf("Decode(%s): %v", tt.raw, err)
		}
		got, ok := records[0].Width.Int()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Int(%s) = %d,%v, want %d,%v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}
