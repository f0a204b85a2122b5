package clinic

import (
	"sync"
	"time"
)

// Store owns the five clinic collections. Every collection keeps insertion
// order. Snapshots returned by the accessors are never modified afterwards:
// appends land past the end of any earlier snapshot and updates copy the
// affected collection first.
type Store struct {
	mu        sync.RWMutex
	now       func() time.Time
	patients  []Patient
	doctors   []Doctor
	visits    []Visit
	medicines []Medicine
	rooms     []Room
}

type StoreOption func(*Store)

// WithClock overrides the clock used to stamp patient registration dates.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Counts holds the size of each collection.
type Counts struct {
	Patients  int `json:"patients"`
	Doctors   int `json:"doctors"`
	Visits    int `json:"visits"`
	Medicines int `json:"medicines"`
	Rooms     int `json:"rooms"`
}

// nextID returns max(existing ids)+1, or 1 for an empty collection. It scans
// the current collection on every call rather than keeping a counter.
func nextID[T any](items []T, id func(T) int) int {
	highest := 0
	for _, it := range items {
		if v := id(it); v > highest {
			highest = v
		}
	}
	return highest + 1
}

// snapshot clips capacity so that a caller appending to the result can never
// write into the store's backing array.
func snapshot[T any](items []T) []T {
	return items[:len(items):len(items)]
}

// -- Patients --

// CreatePatient assigns the next patient id, stamps the registration date with
// the store clock and appends the record.
func (s *Store) CreatePatient(in PatientInput) Patient {
	return s.CreatePatientAt(in, s.now())
}

// CreatePatientAt behaves like CreatePatient with an explicit registration
// instant. Used when seeding.
func (s *Store) CreatePatientAt(in PatientInput, registeredAt time.Time) Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Patient{
		ID:               nextID(s.patients, func(p Patient) int { return p.ID }),
		Name:             in.Name,
		Gender:           in.Gender,
		Age:              in.Age,
		Phone:            in.Phone,
		Address:          in.Address,
		Disease:          in.Disease,
		RegistrationDate: registeredAt.UTC(),
		DoctorID:         copyIntPtr(in.DoctorID),
	}
	s.patients = append(s.patients, p)
	return p
}

func (s *Store) Patients() []Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.patients)
}

// -- Doctors --

func (s *Store) CreateDoctor(in DoctorInput) Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := Doctor{
		ID:        nextID(s.doctors, func(d Doctor) int { return d.ID }),
		Name:      in.Name,
		Specialty: in.Specialty,
		Phone:     in.Phone,
		Schedule:  in.Schedule,
	}
	s.doctors = append(s.doctors, d)
	return d
}

func (s *Store) Doctors() []Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.doctors)
}

// -- Visits --

func (s *Store) CreateVisit(in VisitInput) Visit {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := Visit{
		ID:           nextID(s.visits, func(v Visit) int { return v.ID }),
		PatientID:    in.PatientID,
		DoctorID:     in.DoctorID,
		VisitDate:    in.VisitDate,
		Diagnosis:    in.Diagnosis,
		Prescription: in.Prescription,
	}
	s.visits = append(s.visits, v)
	return v
}

func (s *Store) Visits() []Visit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.visits)
}

// -- Medicines --

func (s *Store) CreateMedicine(in MedicineInput) Medicine {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := Medicine{
		ID:          nextID(s.medicines, func(m Medicine) int { return m.ID }),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
	}
	s.medicines = append(s.medicines, m)
	return m
}

func (s *Store) Medicines() []Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.medicines)
}

// -- Rooms --

func (s *Store) CreateRoom(in RoomInput) Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := Room{
		ID:       nextID(s.rooms, func(r Room) int { return r.ID }),
		Type:     in.Type,
		Capacity: in.Capacity,
		Status:   in.Status,
	}
	s.rooms = append(s.rooms, r)
	return r
}

func (s *Store) Rooms() []Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.rooms)
}

// UpdateRoomStatus replaces the status of the room with the given id and
// returns the resulting room snapshot. An unknown id leaves every room
// unchanged and reports false.
func (s *Store) UpdateRoomStatus(id int, status RoomStatus) ([]Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, r := range s.rooms {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return snapshot(s.rooms), false
	}

	next := make([]Room, len(s.rooms))
	copy(next, s.rooms)
	next[idx].Status = status
	s.rooms = next
	return snapshot(s.rooms), true
}

func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Patients:  len(s.patients),
		Doctors:   len(s.doctors),
		Visits:    len(s.visits),
		Medicines: len(s.medicines),
		Rooms:     len(s.rooms),
	}
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
