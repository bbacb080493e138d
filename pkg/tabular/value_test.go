package tabular

import (
	"encoding/json"
	"testing"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"absent renders empty", Absent(), ""},
		{"text passes through", String("granted"), "granted"},
		{"int formats base ten", Int(42), "42"},
		{"float drops trailing zeroes", Float(10.5), "10.5"},
		{"negative float", Float(-5), "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueFloat(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   float64
		wantOK bool
	}{
		{"int coerces", Int(7), 7, true},
		{"float passes", Float(0.01), 0.01, true},
		{"numeric text parses", String("10.5"), 10.5, true},
		{"padded text parses", String(" 3 "), 3, true},
		{"non-numeric text fails", String("abc"), 0, false},
		{"empty text fails", String(""), 0, false},
		{"absent fails", Absent(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Float()
			if ok != tt.wantOK {
				t.Fatalf("Float() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("Float() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	var row Row
	raw := `{"amount": -5, "rate": 0.5, "name": "ana", "phone": null}`
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		t.Fatalf("unmarshal row: %v", err)
	}

	if row["amount"].Kind() != KindInt {
		t.Errorf("amount kind = %v, want KindInt", row["amount"].Kind())
	}
	if row["rate"].Kind() != KindFloat {
		t.Errorf("rate kind = %v, want KindFloat", row["rate"].Kind())
	}
	if row["name"].Kind() != KindString {
		t.Errorf("name kind = %v, want KindString", row["name"].Kind())
	}
	if !row["phone"].IsAbsent() {
		t.Errorf("phone should be absent")
	}

	out, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal row: %v", err)
	}
	var back Row
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	for col, v := range row {
		if !back[col].Equal(v) {
			t.Errorf("column %s changed across round trip: %v != %v", col, back[col], v)
		}
	}
}

func TestRowCellMissingColumn(t *testing.T) {
	row := Row{"a": String("x")}
	if !row.Cell("b").IsAbsent() {
		t.Fatal("missing column should read as absent")
	}
}
