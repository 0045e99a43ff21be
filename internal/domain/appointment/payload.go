package appointment

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is the canonical appointment record. Every field is optional; nil
// means the caller did not send the field under any known alias. Whether an
// absent field is acceptable is the repository's concern, not the
// normalizer's.
type Payload struct {
	PatientID *int64
	DoctorID  *int64
	Date      *string
	Time      *string
	Type      *string
	Status    *string
}

// Field aliases accepted from the dashboards, in priority order. The first
// alias present in the body wins, even when its value is null or empty.
var (
	patientIDAliases = []string{"patient_id", "paciente_id", "pacienteId", "patientId"}
	doctorIDAliases  = []string{"doctor_id", "medico_id", "medicoId", "doctorId"}
	dateAliases      = []string{"fecha", "date"}
	timeAliases      = []string{"hora", "time"}
	typeAliases      = []string{"tipo", "type"}
	statusAliases    = []string{"estado", "status"}
)

// firstPresent returns the raw value of the first alias whose key exists in
// the body. Key presence is what counts: {"status": null} selects the status
// alias with a null value rather than falling through.
func firstPresent(body map[string]json.RawMessage, aliases []string) (json.RawMessage, bool) {
	for _, alias := range aliases {
		if raw, ok := body[alias]; ok {
			return raw, true
		}
	}
	return nil, false
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func stringField(body map[string]json.RawMessage, aliases []string) (*string, error) {
	raw, ok := firstPresent(body, aliases)
	if !ok || isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("field %s: %w", aliases[0], err)
	}
	return &s, nil
}

func intField(body map[string]json.RawMessage, aliases []string) (*int64, error) {
	raw, ok := firstPresent(body, aliases)
	if !ok || isNull(raw) {
		return nil, nil
	}
	// Dashboards send ids as numbers or numeric strings.
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("field %s: %w", aliases[0], err)
		}
		n = json.Number(s)
	}
	v, err := n.Int64()
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", aliases[0], err)
	}
	return &v, nil
}

// NormalizePayload projects a request body in either field-name dialect onto
// the canonical record. No validation happens here beyond JSON syntax.
func NormalizePayload(data []byte) (Payload, error) {
	body := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			return Payload{}, fmt.Errorf("invalid payload: %w", err)
		}
	}

	var p Payload
	var err error
	if p.PatientID, err = intField(body, patientIDAliases); err != nil {
		return Payload{}, err
	}
	if p.DoctorID, err = intField(body, doctorIDAliases); err != nil {
		return Payload{}, err
	}
	if p.Date, err = stringField(body, dateAliases); err != nil {
		return Payload{}, err
	}
	if p.Time, err = stringField(body, timeAliases); err != nil {
		return Payload{}, err
	}
	if p.Type, err = stringField(body, typeAliases); err != nil {
		return Payload{}, err
	}
	if p.Status, err = stringField(body, statusAliases); err != nil {
		return Payload{}, err
	}
	return p, nil
}
