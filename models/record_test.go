package models

import (
	"encoding/json"
	"testing"
)

func TestRecordMarshalKeepsInsertionOrder(t *testing.T) {
	r := NewRecord()
	r.Set("price", "£250,000")
	r.Set("summary", nil)
	r.Set("address", "1 <High> Street & Co")
	r.Set("price", "£260,000")

	got, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"price":"£260,000","summary":null,"address":"1 <High> Street & Co"}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEmptyRecordMarshalsAsEmptyObject(t *testing.T) {
	got, err := json.Marshal(NewRecord())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{}" {
		t.Errorf("got %s, want {}", got)
	}
}

func TestParseJSONKeepsOrderAndNumbers(t *testing.T) {
	v, err := ParseJSON([]byte(`{"z":1.50,"a":{"y":[1,{"b":true}],"x":null}}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	rec, ok := v.(*Record)
	if !ok {
		t.Fatalf("got %T, want *Record", v)
	}
	keys := rec.Keys()
	if len(keys) != 2 || keys[0] != "z" || keys[1] != "a" {
		t.Errorf("keys: got %v", keys)
	}
	z, _ := rec.Get("z")
	if n, ok := z.(json.Number); !ok || n.String() != "1.50" {
		t.Errorf("z: got %#v", z)
	}

	back, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if string(back) != `{"z":1.50,"a":{"y":[1,{"b":true}],"x":null}}` {
		t.Errorf("round trip: got %s", back)
	}
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"a":1} {"b":2}`)); err == nil {
		t.Error("expected error for trailing document")
	}
	if _, err := ParseJSON([]byte(`{"a":`)); err == nil {
		t.Error("expected error for truncated document")
	}
}

func TestParseRecords(t *testing.T) {
	recs, err := ParseRecords([]byte(`[{"a":1},{}]`))
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(recs) != 2 || recs[1].Len() != 0 {
		t.Errorf("got %d records", len(recs))
	}
	if _, err := ParseRecords([]byte(`[1]`)); err == nil {
		t.Error("expected error for non-object element")
	}
}

func TestRecordUnmarshalJSON(t *testing.T) {
	var recs []*Record
	if err := json.Unmarshal([]byte(`[{"b":"x","a":null}]`), &recs); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := recs[0].Keys(); got[0] != "b" || got[1] != "a" {
		t.Errorf("keys: got %v", got)
	}
}

func TestJobStateString(t *testing.T) {
	if StateFailed.String() != "failed" || StatePersisted.String() != "persisted" {
		t.Errorf("unexpected state names")
	}
}

func TestMarshalKeepsLineSeparatorsLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"line separator", "a\u2028b é", "{\"v\":\"a\u2028b é\"}"},
		{"paragraph separator in array", []any{"x\u2029"}, "{\"v\":[\"x\u2029\"]}"},
		{"escaped backslash stays escaped", `\u2028`, `{"v":"\\u2028"}`},
		{"other escapes untouched", "tab\there", `{"v":"tab\there"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecord()
			r.Set("v", tt.value)
			got, err := r.MarshalJSON()
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestZeroValueRecord(t *testing.T) {
	var r Record
	if r.Len() != 0 || len(r.Keys()) != 0 {
		t.Errorf("zero Record should be empty")
	}
	if _, ok := r.Get("x"); ok {
		t.Error("Get on zero Record should report absent")
	}
	r.Set("x", "1")
	if got, _ := r.Get("x"); got != "1" {
		t.Errorf("Set on zero Record: got %v", got)
	}
}
