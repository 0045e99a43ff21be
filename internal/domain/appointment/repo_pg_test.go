package appointment

import (
	"strings"
	"testing"
)

func TestNewRepoPG_QuotesReservedIdentifiers(t *testing.T) {
	r := NewRepoPG(nil, Columns{
		Date: "date", Time: "time", Type: "type", Status: "status",
		PatientName: "name", DoctorName: "name", DoctorSpecialty: "specialty",
	}).(*repoPG)

	for _, want := range []string{`a."date"`, `a."time"`, `a."type"`, `a."status"`} {
		if !strings.Contains(r.selectSQL, want) {
			t.Errorf("select should contain %s:\n%s", want, r.selectSQL)
		}
	}
	if !strings.Contains(r.orderSQL, `a."date" DESC, a."time" DESC`) {
		t.Errorf("unexpected order clause: %s", r.orderSQL)
	}
	if !strings.Contains(r.insertSQL, `"date", "time", "type", "status"`) {
		t.Errorf("unexpected insert columns: %s", r.insertSQL)
	}
}

func TestNewRepoPG_SpecialtyFallsBackToNull(t *testing.T) {
	r := NewRepoPG(nil, Columns{
		Date: "fecha", Time: "hora", Type: "tipo", Status: "estado",
		PatientName: "nombre", DoctorName: "nombre",
	}).(*repoPG)

	if !strings.Contains(r.selectSQL, "NULL AS especialidad") {
		t.Errorf("expected NULL especialidad projection:\n%s", r.selectSQL)
	}
}

func TestNewRepoPG_EscapesQuotesInIdentifiers(t *testing.T) {
	// A resolved name can only come from the candidate whitelist, but the
	// quoting must still be safe on principle.
	r := NewRepoPG(nil, Columns{
		Date: `fe"cha`, Time: "hora", Type: "tipo", Status: "estado",
		PatientName: "nombre", DoctorName: "nombre",
	}).(*repoPG)

	if !strings.Contains(r.selectSQL, `"fe""cha"`) {
		t.Errorf("expected escaped identifier:\n%s", r.selectSQL)
	}
}
