package clinic

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Query implements the per-collection search boxes and the dashboard
// aggregates. Matching is case-insensitive substring containment: both sides
// are lowercased with full Unicode case mapping and nothing else is
// normalized.
type Query struct {
	store    *Store
	resolver *Resolver
}

func NewQuery(store *Store, resolver *Resolver) *Query {
	return &Query{store: store, resolver: resolver}
}

// matcher holds one lowercased query. cases.Caser is stateful, so a matcher
// must not be shared between goroutines.
type matcher struct {
	caser  cases.Caser
	needle string
}

func newMatcher(q string) *matcher {
	c := cases.Lower(language.Und)
	return &matcher{caser: c, needle: c.String(q)}
}

func (m *matcher) any(fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(m.caser.String(f), m.needle) {
			return true
		}
	}
	return false
}

func filter[T any](items []T, q string, fields func(T) []string) []T {
	if q == "" {
		return items
	}
	m := newMatcher(q)
	out := make([]T, 0)
	for _, it := range items {
		if m.any(fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}

// SearchPatients matches name, phone, disease or address.
func (q *Query) SearchPatients(query string) []Patient {
	return filter(q.store.Patients(), query, func(p Patient) []string {
		return []string{p.Name, p.Phone, p.Disease, p.Address}
	})
}

// SearchDoctors matches name or specialty.
func (q *Query) SearchDoctors(query string) []Doctor {
	return filter(q.store.Doctors(), query, func(d Doctor) []string {
		return []string{d.Name, d.Specialty}
	})
}

// SearchMedicines matches name or description.
func (q *Query) SearchMedicines(query string) []Medicine {
	return filter(q.store.Medicines(), query, func(m Medicine) []string {
		return []string{m.Name, m.Description}
	})
}

// SearchRooms matches type or status.
func (q *Query) SearchRooms(query string) []Room {
	return filter(q.store.Rooms(), query, func(r Room) []string {
		return []string{r.Type, string(r.Status)}
	})
}

// SearchVisits matches the resolved patient name, the resolved doctor name,
// the diagnosis or the prescription. A reference that does not resolve adds
// no text to match against.
func (q *Query) SearchVisits(query string) []Visit {
	visits := q.store.Visits()
	if query == "" {
		return visits
	}
	refs := q.resolver.batch()
	return filter(visits, query, func(v Visit) []string {
		fields := make([]string, 0, 4)
		if p, ok := refs.patient(v.PatientID); ok {
			fields = append(fields, p.Name)
		}
		if d, ok := refs.doctor(v.DoctorID); ok {
			fields = append(fields, d.Name)
		}
		return append(fields, v.Diagnosis, v.Prescription)
	})
}

// VisitsOnDate counts visits whose date equals date exactly.
func (q *Query) VisitsOnDate(date string) int {
	n := 0
	for _, v := range q.store.Visits() {
		if v.VisitDate == date {
			n++
		}
	}
	return n
}

// Availability is the "available / total" room figure.
type Availability struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

func (q *Query) RoomAvailability() Availability {
	rooms := q.store.Rooms()
	a := Availability{Total: len(rooms)}
	for _, r := range rooms {
		if r.Status == RoomAvailable {
			a.Available++
		}
	}
	return a
}

// Statistics is the dashboard summary.
type Statistics struct {
	Patients     int          `json:"patients"`
	Doctors      int          `json:"doctors"`
	Date         string       `json:"date"`
	VisitsOnDate int          `json:"visits_on_date"`
	Rooms        Availability `json:"rooms"`
}

func (q *Query) Statistics(date string) Statistics {
	counts := q.store.Counts()
	return Statistics{
		Patients:     counts.Patients,
		Doctors:      counts.Doctors,
		Date:         date,
		VisitsOnDate: q.VisitsOnDate(date),
		Rooms:        q.RoomAvailability(),
	}
}
