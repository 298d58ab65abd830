package store

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestParseDocumentRejectsInvalid(t *testing.T) {
	inputs := map[string]string{
		"not json":             "hello",
		"array":                "[1,2,3]",
		"missing participants": `{"meta":{"lastUser":"andre"}}`,
		"null participants":    `{"participants":null}`,
		"string participants":  `{"participants":"nope"}`,
	}
	for name, in := range inputs {
		_, err := ParseDocument([]byte(in), testRoster(), testDays())
		if !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("%s: expected ErrInvalidDocument, got %v", name, err)
		}
	}
}

func TestParseDocumentNormalizes(t *testing.T) {
	in := `{
		"participants": {
			"andre": {
				"dailySteps": {
					"2025-10-06": 1000,
					"2025-10-07": -50,
					"2025-10-08": 2500.9,
					"2025-10-09": "4200",
					"2025-10-10": "abc",
					"2031-01-01": 99999
				}
			},
			"stranger": {"dailySteps": {"2025-10-06": 5}, "notes": "hi"}
		}
	}`
	doc, err := ParseDocument([]byte(in), testRoster(), testDays())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := doc.Participants["stranger"]; ok {
		t.Fatal("unknown participant should be dropped")
	}
	jo, ok := doc.Participants["jo_woolston"]
	if !ok || len(jo.DailySteps) != 7 {
		t.Fatal("missing participant should be zero-filled")
	}

	andre := doc.Participants["andre"]
	want := map[string]int{
		"2025-10-06": 1000,
		"2025-10-07": 0,
		"2025-10-08": 2500,
		"2025-10-09": 4200,
		"2025-10-10": 0,
		"2025-10-11": 0,
		"2025-10-12": 0,
	}
	if !reflect.DeepEqual(andre.DailySteps, want) {
		t.Fatalf("dailySteps = %v, want %v", andre.DailySteps, want)
	}
	if andre.Notes != "" {
		t.Fatalf("notes should default to empty, got %q", andre.Notes)
	}
	if doc.Meta.LastUser != "" {
		t.Fatalf("lastUser should default to empty, got %q", doc.Meta.LastUser)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	roster, days := testRoster(), testDays()
	doc := NewDocument(roster, days)
	doc.Participants["andre"].DailySteps["2025-10-06"] = 8000
	doc.Participants["andre"].DailySteps["2025-10-07"] = 5000000000
	doc.Participants["jo_woolston"].DailySteps["2025-10-12"] = 23000
	doc.Participants["jo_woolston"].Notes = "hill repeats"
	doc.Meta.LastUser = "jo_woolston"

	data, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseDocument(data, roster, days)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(doc, back) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", doc, back)
	}
}

func TestDocumentClone(t *testing.T) {
	doc := NewDocument(testRoster(), testDays())
	c := doc.Clone()
	c.Participants["andre"].DailySteps["2025-10-06"] = 1
	c.Participants["andre"].Notes = "x"
	if doc.Participants["andre"].DailySteps["2025-10-06"] != 0 || doc.Participants["andre"].Notes != "" {
		t.Fatal("clone shares state with original")
	}
	if len(doc.Steps()) != 2 {
		t.Fatal("Steps should list every participant")
	}
}

func TestParseSteps(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12000", 12000},
		{"  750 ", 750},
		{"12abc", 12},
		{"3.9", 3},
		{"-40", 0},
		{"+15", 15},
		{"", 0},
		{"abc", 0},
		{"-", 0},
		{"5000000000", 5000000000},
		{"99999999999999999999999", math.MaxInt},
		{"-99999999999999999999999", 0},
	}
	for _, tt := range tests {
		if got := ParseSteps(tt.in); got != tt.want {
			t.Errorf("ParseSteps(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCoerceSteps(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{float64(10), 10},
		{float64(-1), 0},
		{float64(7.8), 7},
		{float64(5e9), 5000000000},
		{1e30, math.MaxInt},
		{math.Inf(1), math.MaxInt},
		{math.NaN(), 0},
		{"42", 42},
		{true, 0},
		{nil, 0},
		{map[string]any{}, 0},
	}
	for _, tt := range tests {
		if got := CoerceSteps(tt.in); got != tt.want {
			t.Errorf("CoerceSteps(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
