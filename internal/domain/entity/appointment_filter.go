package entity

import "time"

// AppointmentFilter is a domain-level filter for listing appointments.
// Exactly one of PatientID / DoctorID scopes the query; the date bounds
// are inclusive and optional.
type AppointmentFilter struct {
	PatientID int
	DoctorID  int
	FromDate  *time.Time
	ToDate    *time.Time
}

// DoctorFilter narrows the doctor directory. Specialization is matched by
// the repository; WorksOn is applied on the loaded availability.
type DoctorFilter struct {
	Specialization string
	WorksOn        *time.Time
}
