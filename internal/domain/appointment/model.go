package appointment

// Appointment is a joined row: the appointment itself plus the display
// fields of its patient and doctor. JSON names match what the dashboards
// already consume.
type Appointment struct {
	ID        int64   `json:"id"`
	PatientID *int64  `json:"patient_id"`
	DoctorID  *int64  `json:"doctor_id"`
	Date      *string `json:"fecha"`
	Time      *string `json:"hora"`
	Type      *string `json:"tipo"`
	Status    *string `json:"estado"`
	Patient   *string `json:"paciente"`
	Doctor    *string `json:"doctor"`
	Specialty *string `json:"especialidad"`
}
