package clinic

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for visit dates.
const DateLayout = "2006-01-02"

// ErrInvalidInput is wrapped by every input validation failure.
var ErrInvalidInput = errors.New("invalid input")

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type RoomStatus string

const (
	RoomAvailable        RoomStatus = "Available"
	RoomOccupied         RoomStatus = "Occupied"
	RoomUnderMaintenance RoomStatus = "UnderMaintenance"
)

// RoomStatuses lists every room status in display order.
var RoomStatuses = []RoomStatus{RoomAvailable, RoomOccupied, RoomUnderMaintenance}

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomUnderMaintenance:
		return true
	}
	return false
}

// Patient is a registered patient. DoctorID is a weak reference and may be
// nil or point at a doctor that does not exist.
type Patient struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Gender           Gender    `json:"gender"`
	Age              int       `json:"age"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	Disease          string    `json:"disease"`
	RegistrationDate time.Time `json:"registration_date"`
	DoctorID         *int      `json:"doctor_id"`
}

type Doctor struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
	Schedule  string `json:"schedule"`
}

// Visit records one patient visit. VisitDate is a calendar date in DateLayout.
type Visit struct {
	ID           int    `json:"id"`
	PatientID    int    `json:"patient_id"`
	DoctorID     int    `json:"doctor_id"`
	VisitDate    string `json:"visit_date"`
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
}

type Medicine struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

type Room struct {
	ID       int        `json:"id"`
	Type     string     `json:"type"`
	Capacity int        `json:"capacity"`
	Status   RoomStatus `json:"status"`
}

// -- Create inputs --

type PatientInput struct {
	Name     string `json:"name"`
	Gender   Gender `json:"gender"`
	Age      int    `json:"age"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Disease  string `json:"disease"`
	DoctorID *int   `json:"doctor_id"`
}

func (in PatientInput) Validate() error {
	if err := required(map[string]string{
		"name": in.Name, "phone": in.Phone, "address": in.Address, "disease": in.Disease,
	}); err != nil {
		return err
	}
	if !in.Gender.Valid() {
		return invalid("gender must be %q or %q", GenderMale, GenderFemale)
	}
	if in.Age < 0 {
		return invalid("age must not be negative")
	}
	if in.DoctorID != nil && *in.DoctorID < 1 {
		return invalid("doctor_id must be positive")
	}
	return nil
}

type DoctorInput struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
	Schedule  string `json:"schedule"`
}

func (in DoctorInput) Validate() error {
	return required(map[string]string{
		"name": in.Name, "specialty": in.Specialty, "phone": in.Phone, "schedule": in.Schedule,
	})
}

type VisitInput struct {
	PatientID    int    `json:"patient_id"`
	DoctorID     int    `json:"doctor_id"`
	VisitDate    string `json:"visit_date"`
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
}

func (in VisitInput) Validate() error {
	if err := required(map[string]string{
		"visit_date": in.VisitDate, "diagnosis": in.Diagnosis, "prescription": in.Prescription,
	}); err != nil {
		return err
	}
	if in.PatientID < 1 {
		return invalid("patient_id is required")
	}
	if in.DoctorID < 1 {
		return invalid("doctor_id is required")
	}
	if _, err := time.Parse(DateLayout, in.VisitDate); err != nil {
		return invalid("visit_date must be YYYY-MM-DD")
	}
	return nil
}

type MedicineInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

func (in MedicineInput) Validate() error {
	if err := required(map[string]string{
		"name": in.Name, "description": in.Description,
	}); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return invalid("price must not be negative")
	}
	if in.Stock < 0 {
		return invalid("stock must not be negative")
	}
	return nil
}

type RoomInput struct {
	Type     string     `json:"type"`
	Capacity int        `json:"capacity"`
	Status   RoomStatus `json:"status"`
}

func (in RoomInput) Validate() error {
	if strings.TrimSpace(in.Type) == "" {
		return invalid("type is required")
	}
	if in.Capacity < 1 {
		return invalid("capacity must be at least 1")
	}
	if !in.Status.Valid() {
		return invalid("invalid status: %s", in.Status)
	}
	return nil
}

func required(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return invalid("%s is required", strings.Join(missing, ", "))
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
