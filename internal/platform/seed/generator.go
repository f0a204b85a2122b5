// Package seed fills a clinic store with a randomized but realistic dataset so
// the application has something to show on every start.
package seed

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clinic/clinic/internal/domain/clinic"
)

// Config controls the volume of generated data.
type Config struct {
	Doctors   int       `json:"doctors"`
	Patients  int       `json:"patients"`
	Visits    int       `json:"visits"`
	Medicines int       `json:"medicines"`
	Rooms     int       `json:"rooms"`
	Start     time.Time `json:"start"`
	Seed      int64     `json:"seed"`

	// Upper bounds for generated references. Zero means the configured
	// Doctors/Patients count. Values above the count produce dangling
	// references.
	DoctorRefRange  int `json:"doctor_ref_range"`
	PatientRefRange int `json:"patient_ref_range"`
}

// DefaultConfig returns the dataset size used by the server.
func DefaultConfig() Config {
	return Config{
		Doctors:   100,
		Patients:  1000,
		Visits:    2000,
		Medicines: 200,
		Rooms:     100,
		Start:     time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Result summarizes one Generate call.
type Result struct {
	Doctors   int           `json:"doctors"`
	Patients  int           `json:"patients"`
	Visits    int           `json:"visits"`
	Medicines int           `json:"medicines"`
	Rooms     int           `json:"rooms"`
	Total     int           `json:"total"`
	Seed      int64         `json:"seed"`
	Duration  time.Duration `json:"duration"`
}

type Generator struct {
	config Config
	vocab  Vocabulary
	now    func() time.Time
	rng    *rand.Rand
}

type Option func(*Generator)

// WithClock overrides the upper bound of generated instants.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(config Config, vocab Vocabulary, opts ...Option) *Generator {
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	g := &Generator{
		config: config,
		vocab:  vocab,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (c Config) validate() error {
	if c.Doctors < 0 || c.Patients < 0 || c.Visits < 0 || c.Medicines < 0 || c.Rooms < 0 {
		return errors.New("seed counts must not be negative")
	}
	if c.DoctorRefRange < 0 || c.PatientRefRange < 0 {
		return errors.New("seed reference ranges must not be negative")
	}
	return nil
}

func (v Vocabulary) validate() error {
	pools := map[string][]string{
		"names":          v.Names,
		"cities":         v.Cities,
		"diseases":       v.Diseases,
		"specialties":    v.Specialties,
		"medicines":      v.Medicines,
		"strengths":      v.Strengths,
		"room_types":     v.RoomTypes,
		"phone_prefixes": v.PhonePrefixes,
	}
	for name, pool := range pools {
		if len(pool) == 0 {
			return fmt.Errorf("vocabulary pool %q is empty", name)
		}
	}
	return nil
}

// Generate appends the configured number of records to store in the order
// doctors, patients, visits, medicines, rooms.
func (g *Generator) Generate(store *clinic.Store) (*Result, error) {
	if err := g.config.validate(); err != nil {
		return nil, err
	}
	if err := g.vocab.validate(); err != nil {
		return nil, err
	}
	end := g.now()
	if !g.config.Start.Before(end) {
		return nil, fmt.Errorf("seed start %s is not before %s", g.config.Start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	began := time.Now()
	doctorRange := refRange(g.config.DoctorRefRange, g.config.Doctors)
	patientRange := refRange(g.config.PatientRefRange, g.config.Patients)

	for i := 0; i < g.config.Doctors; i++ {
		store.CreateDoctor(g.doctor())
	}
	for i := 0; i < g.config.Patients; i++ {
		in := g.patient(i, doctorRange)
		store.CreatePatientAt(in, g.instant(end))
	}
	for i := 0; i < g.config.Visits; i++ {
		store.CreateVisit(g.visit(end, patientRange, doctorRange))
	}
	for i := 0; i < g.config.Medicines; i++ {
		store.CreateMedicine(g.medicine())
	}
	for i := 0; i < g.config.Rooms; i++ {
		store.CreateRoom(g.room())
	}

	r := &Result{
		Doctors:   g.config.Doctors,
		Patients:  g.config.Patients,
		Visits:    g.config.Visits,
		Medicines: g.config.Medicines,
		Rooms:     g.config.Rooms,
		Seed:      g.config.Seed,
	}
	r.Total = r.Doctors + r.Patients + r.Visits + r.Medicines + r.Rooms
	r.Duration = time.Since(began)
	return r, nil
}

func refRange(configured, count int) int {
	if configured > 0 {
		return configured
	}
	return count
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

// ref returns an id in [1, n], or 1 when n is zero.
func (g *Generator) ref(n int) int {
	if n < 1 {
		return 1
	}
	return 1 + g.rng.Intn(n)
}

// instant is uniform in [Start, end).
func (g *Generator) instant(end time.Time) time.Time {
	span := end.Sub(g.config.Start)
	return g.config.Start.Add(time.Duration(g.rng.Int63n(int64(span)))).UTC()
}

func (g *Generator) phone() string {
	return "07" + g.pick(g.vocab.PhonePrefixes) + strconv.Itoa(1000000+g.rng.Intn(9000000))
}

func (g *Generator) fullName() string {
	return g.pick(g.vocab.Names) + " " + g.pick(g.vocab.Names)
}

func (g *Generator) doctor() clinic.DoctorInput {
	return clinic.DoctorInput{
		Name:      "Dr. " + g.fullName(),
		Specialty: g.pick(g.vocab.Specialties),
		Phone:     g.phone(),
		Schedule:  g.vocab.Schedule,
	}
}

func (g *Generator) patient(i, doctorRange int) clinic.PatientInput {
	gender := clinic.GenderMale
	if g.rng.Intn(2) == 1 {
		gender = clinic.GenderFemale
	}
	in := clinic.PatientInput{
		Name:    g.fullName(),
		Gender:  gender,
		Age:     18 + g.rng.Intn(60),
		Phone:   g.phone(),
		Address: fmt.Sprintf("%s, District %d", g.pick(g.vocab.Cities), i+1),
		Disease: g.pick(g.vocab.Diseases),
	}
	if doctorRange > 0 {
		id := g.ref(doctorRange)
		in.DoctorID = &id
	}
	return in
}

func (g *Generator) visit(end time.Time, patientRange, doctorRange int) clinic.VisitInput {
	return clinic.VisitInput{
		PatientID:    g.ref(patientRange),
		DoctorID:     g.ref(doctorRange),
		VisitDate:    g.instant(end).Format(clinic.DateLayout),
		Diagnosis:    g.pick(g.vocab.Diseases),
		Prescription: g.pick(g.vocab.Medicines),
	}
}

func (g *Generator) medicine() clinic.MedicineInput {
	cents := 500 + g.rng.Int63n(9500)
	return clinic.MedicineInput{
		Name:        g.pick(g.vocab.Medicines) + " " + g.pick(g.vocab.Strengths),
		Description: "For treatment of " + g.pick(g.vocab.Diseases),
		Price:       decimal.New(cents, -2),
		Stock:       50 + g.rng.Intn(450),
	}
}

func (g *Generator) room() clinic.RoomInput {
	return clinic.RoomInput{
		Type:     g.pick(g.vocab.RoomTypes),
		Capacity: 1 + g.rng.Intn(4),
		Status:   clinic.RoomStatuses[g.rng.Intn(len(clinic.RoomStatuses))],
	}
}
