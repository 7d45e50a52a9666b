package coerce

import (
	"testing"
	"time"
)

func TestValueText(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"plain string", "pompe hydraulique", "pompe hydraulique"},
		{"number becomes string", 42.0, "42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Value(Text, tc.in); got != tc.want {
				t.Fatalf("Value(Text, %v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestValueNumber(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"json number", 3.5, 3.5},
		{"numeric string", "120", 120.0},
		{"non-numeric string", "abc", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Value(Number, tc.in); got != tc.want {
				t.Fatalf("Value(Number, %v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestValueDate(t *testing.T) {
	got := Value(Date, "2025-03-01")
	d, ok := got.(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got %T", got)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 1 {
		t.Fatalf("unexpected date: %v", d)
	}

	if got := Value(Date, "not-a-date"); got != nil {
		t.Fatalf("malformed date should coerce to nil, got %v", got)
	}
	if got := Value(Date, ""); got != nil {
		t.Fatalf("empty date should coerce to nil, got %v", got)
	}
}

func TestValueTimeOfDay(t *testing.T) {
	got := Value(TimeOfDay, "08:15")
	ts, ok := got.(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got %T", got)
	}
	if ts.Hour() != 8 || ts.Minute() != 15 {
		t.Fatalf("expected 08:15, got %02d:%02d", ts.Hour(), ts.Minute())
	}
	now := time.Now()
	if ts.Year() != now.Year() || ts.YearDay() != now.YearDay() {
		t.Fatalf("HH:MM literal should land on today's date, got %v", ts)
	}

	// Full date-time strings are accepted as-is.
	got = Value(TimeOfDay, "2025-03-01 14:30:00")
	ts, ok = got.(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got %T", got)
	}
	if ts.Day() != 1 || ts.Hour() != 14 || ts.Minute() != 30 {
		t.Fatalf("unexpected date-time: %v", ts)
	}

	if got := Value(TimeOfDay, "25h99"); got != nil {
		t.Fatalf("malformed time should coerce to nil, got %v", got)
	}
}

func TestValidateKeys(t *testing.T) {
	if err := ValidateKeys(map[string]any{"chaine": "L1", "quantite": 2.0}); err != nil {
		t.Fatalf("recognized keys rejected: %v", err)
	}
	err := ValidateKeys(map[string]any{"chaine": "L1", "id": 7.0})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if got := err.Error(); got != "unknown field: id" {
		t.Fatalf("unexpected error message: %q", got)
	}
}

func TestFieldNamesCoverSchema(t *testing.T) {
	names := FieldNames()
	if len(names) != len(fieldKinds) {
		t.Fatalf("field order lists %d names, schema has %d", len(names), len(fieldKinds))
	}
	for _, n := range names {
		if _, ok := KindOf(n); !ok {
			t.Fatalf("ordered field %q missing from schema", n)
		}
	}
}
