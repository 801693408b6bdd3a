package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateStringJSONRoundTrip(t *testing.T) {
	d := ds("2025-06-15")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-06-15"` {
		t.Errorf("marshal = %s, want \"2025-06-15\"", b)
	}

	var parsed DateString
	if err := json.Unmarshal(b, &parsed); err != nil {
		t.Fatal(err)
	}
	if !parsed.Time().Equal(d.Time()) {
		t.Errorf("round trip changed value: %s vs %s", parsed.Time(), d.Time())
	}
}

func TestDateStringUnmarshalDatetime(t *testing.T) {
	var d DateString
	if err := json.Unmarshal([]byte(`"2025-06-15T09:30:00"`), &d); err != nil {
		t.Fatal(err)
	}
	if d.Time().Format("2006-01-02") != "2025-06-15" {
		t.Errorf("got %s, want 2025-06-15", d.Time().Format("2006-01-02"))
	}
}

func TestDateStringUnmarshalNull(t *testing.T) {
	var d DateString
	if err := json.Unmarshal([]byte(`""`), &d); err != nil {
		t.Fatal(err)
	}
	if !d.IsZero() {
		t.Error("empty string should produce zero date")
	}
}

func TestDateStringScan(t *testing.T) {
	var d DateString
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if err := d.Scan(want); err != nil {
		t.Fatal(err)
	}
	if !d.Time().Equal(want) {
		t.Errorf("scan = %s, want %s", d.Time(), want)
	}
	if err := d.Scan("not a time"); err == nil {
		t.Error("scanning a string should fail")
	}
}

func TestOrderStatusUnmarshalJSON(t *testing.T) {
	var s OrderStatus
	if err := json.Unmarshal([]byte(`"received"`), &s); err != nil {
		t.Fatal(err)
	}
	if s != OrderStatusReceived {
		t.Errorf("got %s, want received", s)
	}
	if err := json.Unmarshal([]byte(`"bogus"`), &s); err == nil {
		t.Error("unknown status should fail")
	}
}
