package clinic

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPatientInput_Validate(t *testing.T) {
	valid := testPatient("Aram")
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*PatientInput)
		want   string
	}{
		{"missing name", func(p *PatientInput) { p.Name = " " }, "name is required"},
		{"missing phone and disease", func(p *PatientInput) { p.Phone = ""; p.Disease = "" }, "disease, phone is required"},
		{"bad gender", func(p *PatientInput) { p.Gender = "X" }, "gender"},
		{"negative age", func(p *PatientInput) { p.Age = -1 }, "age"},
		{"zero doctor id", func(p *PatientInput) { p.DoctorID = intPtr(0) }, "doctor_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testPatient("Aram")
			tt.mutate(&in)
			err := in.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestPatientInput_Validate_NilDoctorAllowed(t *testing.T) {
	in := testPatient("Aram")
	in.DoctorID = nil
	if err := in.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDoctorInput_Validate(t *testing.T) {
	if err := testDoctor("Dr. Aram").Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := testDoctor("Dr. Aram")
	in.Schedule = ""
	if err := in.Validate(); err == nil || !strings.Contains(err.Error(), "schedule") {
		t.Errorf("expected schedule error, got %v", err)
	}
}

func TestVisitInput_Validate(t *testing.T) {
	if err := testVisit(1, 1, "2024-02-29").Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []VisitInput{
		testVisit(0, 1, "2024-01-01"),
		testVisit(1, 0, "2024-01-01"),
		testVisit(1, 1, "2024-13-01"),
		testVisit(1, 1, "01/02/2024"),
		{PatientID: 1, DoctorID: 1, VisitDate: "2024-01-01"},
	}
	for i, in := range bad {
		if err := in.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestMedicineInput_Validate(t *testing.T) {
	in := MedicineInput{Name: "Panadol 500mg", Description: "For treatment of Headache", Price: decimal.RequireFromString("12.50"), Stock: 10}
	if err := in.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in.Price = decimal.RequireFromString("-0.01")
	if err := in.Validate(); err == nil {
		t.Error("expected error for negative price")
	}

	in.Price = decimal.Zero
	in.Stock = -1
	if err := in.Validate(); err == nil {
		t.Error("expected error for negative stock")
	}
}

func TestRoomInput_Validate(t *testing.T) {
	if err := testRoom(RoomUnderMaintenance).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (RoomInput{Type: "VIP", Capacity: 0, Status: RoomAvailable}).Validate(); err == nil {
		t.Error("expected error for zero capacity")
	}
	if err := (RoomInput{Type: "VIP", Capacity: 2, Status: "Closed"}).Validate(); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := (RoomInput{Capacity: 2, Status: RoomAvailable}).Validate(); err == nil {
		t.Error("expected error for missing type")
	}
}

func TestRoomStatus_Valid(t *testing.T) {
	for _, s := range RoomStatuses {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if RoomStatus("available").Valid() {
		t.Error("status matching is case-sensitive")
	}
}
