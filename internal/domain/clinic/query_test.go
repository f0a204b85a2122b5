package clinic

import (
	"testing"

	"github.com/shopspring/decimal"
)

func newQuery(s *Store) *Query {
	return NewQuery(s, NewResolver(s))
}

func TestQuery_EmptyQueryReturnsEverything(t *testing.T) {
	s := NewStore()
	for _, n := range []string{"Aram", "Sozan", "Hemin"} {
		s.CreatePatient(testPatient(n))
	}
	q := newQuery(s)

	all := q.SearchPatients("")
	if len(all) != 3 {
		t.Fatalf("expected 3 patients, got %d", len(all))
	}
	for i, p := range s.Patients() {
		if all[i].ID != p.ID {
			t.Errorf("position %d: expected id %d, got %d", i, p.ID, all[i].ID)
		}
	}
}

func TestQuery_CaseInsensitive(t *testing.T) {
	s := NewStore()
	s.CreatePatient(testPatient("Aram Ahmad"))
	s.CreatePatient(testPatient("Sozan Ali"))
	q := newQuery(s)

	upper := q.SearchPatients("ARAM")
	lower := q.SearchPatients("aram")
	if len(upper) != 1 || len(lower) != 1 || upper[0].ID != lower[0].ID {
		t.Errorf("expected same single match, got %v and %v", upper, lower)
	}
}

func TestQuery_SearchPatientsFields(t *testing.T) {
	s := NewStore()
	a := testPatient("Aram")
	a.Phone = "07709998877"
	a.Address = "Duhok, District 3"
	a.Disease = "Back pain"
	s.CreatePatient(a)
	s.CreatePatient(testPatient("Sozan"))
	q := newQuery(s)

	for _, query := range []string{"9998", "duhok", "BACK"} {
		got := q.SearchPatients(query)
		if len(got) != 1 || got[0].Name != "Aram" {
			t.Errorf("query %q: expected Aram only, got %v", query, got)
		}
	}
	if got := q.SearchPatients("nothing-matches"); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", got)
	}
}

func TestQuery_SearchDoctorsMedicinesRooms(t *testing.T) {
	s := NewStore()
	d := testDoctor("Dr. Rebwar Jamal")
	d.Specialty = "Cardiology"
	s.CreateDoctor(d)
	s.CreateDoctor(testDoctor("Dr. Shilan Kamal"))
	s.CreateMedicine(MedicineInput{Name: "Losartan 100mg", Description: "For treatment of Hypertension", Price: decimal.NewFromInt(9), Stock: 5})
	s.CreateMedicine(MedicineInput{Name: "Panadol 500mg", Description: "For treatment of Headache", Price: decimal.NewFromInt(2), Stock: 5})
	s.CreateRoom(RoomInput{Type: "VIP", Capacity: 1, Status: RoomAvailable})
	s.CreateRoom(RoomInput{Type: "Double", Capacity: 2, Status: RoomUnderMaintenance})
	q := newQuery(s)

	if got := q.SearchDoctors("cardio"); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("doctors: unexpected %v", got)
	}
	if got := q.SearchMedicines("hypertension"); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("medicines: unexpected %v", got)
	}
	if got := q.SearchRooms("maintenance"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("rooms by status: unexpected %v", got)
	}
	if got := q.SearchRooms("vip"); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("rooms by type: unexpected %v", got)
	}
}

func TestQuery_SearchVisits(t *testing.T) {
	s := NewStore()
	s.CreateDoctor(testDoctor("Dr. Aso Muhammad"))
	s.CreatePatient(testPatient("Narmin Karim"))
	s.CreateVisit(VisitInput{PatientID: 1, DoctorID: 1, VisitDate: "2024-03-01", Diagnosis: "Allergy", Prescription: "Vitamin C"})
	s.CreateVisit(VisitInput{PatientID: 999, DoctorID: 1, VisitDate: "2024-03-02", Diagnosis: "Cough", Prescription: "Brufen"})
	q := newQuery(s)

	if got := q.SearchVisits("narmin"); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("by patient name: unexpected %v", got)
	}
	if got := q.SearchVisits("aso"); len(got) != 2 {
		t.Errorf("by doctor name: expected 2, got %v", got)
	}
	if got := q.SearchVisits("BRUFEN"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("by prescription: unexpected %v", got)
	}
}

func TestQuery_SearchVisits_DanglingPatientContributesNothing(t *testing.T) {
	s := NewStore()
	s.CreateDoctor(testDoctor("Dr. Bakhtiar Osman"))
	s.CreateVisit(VisitInput{PatientID: 999, DoctorID: 1, VisitDate: "2024-03-02", Diagnosis: "Cough", Prescription: "Brufen"})
	q := newQuery(s)

	if got := q.SearchVisits("unknown"); len(got) != 0 {
		t.Errorf("placeholder text must not match, got %v", got)
	}
	if got := q.SearchVisits("cough"); len(got) != 1 {
		t.Errorf("expected visit to still match on diagnosis, got %v", got)
	}
}

func TestQuery_VisitsOnDate(t *testing.T) {
	s := NewStore()
	s.CreateVisit(testVisit(1, 1, "2024-06-01"))
	s.CreateVisit(testVisit(1, 1, "2024-06-01"))
	s.CreateVisit(testVisit(1, 1, "2024-06-02"))
	q := newQuery(s)

	if got := q.VisitsOnDate("2024-06-01"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := q.VisitsOnDate("2024-06-03"); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestQuery_RoomAvailability(t *testing.T) {
	s := NewStore()
	s.CreateRoom(testRoom(RoomAvailable))
	s.CreateRoom(testRoom(RoomOccupied))
	s.CreateRoom(testRoom(RoomAvailable))
	s.CreateRoom(testRoom(RoomUnderMaintenance))
	q := newQuery(s)

	got := q.RoomAvailability()
	if got.Available != 2 || got.Total != 4 {
		t.Errorf("expected 2/4, got %d/%d", got.Available, got.Total)
	}

	s.UpdateRoomStatus(2, RoomAvailable)
	if got := q.RoomAvailability(); got.Available != 3 {
		t.Errorf("expected 3 available after update, got %d", got.Available)
	}
}

func TestQuery_Statistics(t *testing.T) {
	s := NewStore()
	s.CreateDoctor(testDoctor("Dr. Dilnia Ali"))
	s.CreatePatient(testPatient("Ahmad"))
	s.CreatePatient(testPatient("Sara"))
	s.CreateVisit(testVisit(1, 1, "2024-06-01"))
	s.CreateRoom(testRoom(RoomOccupied))
	q := newQuery(s)

	got := q.Statistics("2024-06-01")
	want := Statistics{Patients: 2, Doctors: 1, Date: "2024-06-01", VisitsOnDate: 1, Rooms: Availability{Available: 0, Total: 1}}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
