package patient

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDateJSONRoundTrip(t *testing.T) {
	var p Patient
	if err := json.Unmarshal([]byte(`{"name":"Engels Tiu","dob":"1999-05-12"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.DOB == nil {
		t.Fatal("dob not set")
	}
	want := time.Date(1999, 5, 12, 0, 0, 0, 0, time.UTC)
	if !p.DOB.Time.Equal(want) {
		t.Fatalf("got %v, want %v", p.DOB.Time, want)
	}

	out, err := json.Marshal(&p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(out); !strings.Contains(got, `"dob":"1999-05-12"`) {
		t.Fatalf("dob not rendered as plain date: %s", got)
	}
}

func TestDateRejectsGarbage(t *testing.T) {
	var p Patient
	if err := json.Unmarshal([]byte(`{"name":"x","dob":"12/05/1999"}`), &p); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}

func TestDateOmittedStaysNil(t *testing.T) {
	var p Patient
	if err := json.Unmarshal([]byte(`{"name":"x"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.DOB != nil {
		t.Fatalf("dob should be nil, got %v", p.DOB)
	}
}
