package clinic

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/metrics"
)

// Entity labels used in logs and metrics.
const (
	EntityPatient  = "patient"
	EntityDoctor   = "doctor"
	EntityVisit    = "visit"
	EntityMedicine = "medicine"
	EntityRoom     = "room"
)

// Service is the entry point for the HTTP and CLI layers. It assumes input has
// already been validated and adds logging and metrics around the store.
type Service struct {
	store    *Store
	resolver *Resolver
	query    *Query
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// NewService wires a resolver and query engine over store. m may be nil.
func NewService(store *Store, logger zerolog.Logger, m *metrics.Metrics) *Service {
	resolver := NewResolver(store)
	return &Service{
		store:    store,
		resolver: resolver,
		query:    NewQuery(store, resolver),
		logger:   logger,
		metrics:  m,
	}
}

func (s *Service) Store() *Store       { return s.store }
func (s *Service) Resolver() *Resolver { return s.resolver }
func (s *Service) Query() *Query       { return s.query }

// log prefers the request-scoped logger carried by ctx.
func (s *Service) log(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	return &s.logger
}

// SyncMetrics publishes the current collection sizes, e.g. after seeding.
func (s *Service) SyncMetrics() {
	c := s.store.Counts()
	s.metrics.SetCollectionSize(EntityPatient, c.Patients)
	s.metrics.SetCollectionSize(EntityDoctor, c.Doctors)
	s.metrics.SetCollectionSize(EntityVisit, c.Visits)
	s.metrics.SetCollectionSize(EntityMedicine, c.Medicines)
	s.metrics.SetCollectionSize(EntityRoom, c.Rooms)
}

func (s *Service) Counts() Counts {
	return s.store.Counts()
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, in PatientInput) Patient {
	p := s.store.CreatePatient(in)
	s.created(ctx, EntityPatient, p.ID, s.store.Counts().Patients)
	return p
}

func (s *Service) ListPatients(q string) []PatientView {
	s.metrics.ObserveSearch(EntityPatient)
	return s.resolver.ResolvePatients(s.query.SearchPatients(q))
}

func (s *Service) GetPatient(id int) (PatientView, bool) {
	p, ok := s.resolver.Patient(id)
	if !ok {
		return PatientView{}, false
	}
	return s.resolver.ResolvePatients([]Patient{p})[0], true
}

// -- Doctors --

func (s *Service) CreateDoctor(ctx context.Context, in DoctorInput) Doctor {
	d := s.store.CreateDoctor(in)
	s.created(ctx, EntityDoctor, d.ID, s.store.Counts().Doctors)
	return d
}

func (s *Service) ListDoctors(q string) []Doctor {
	s.metrics.ObserveSearch(EntityDoctor)
	return s.query.SearchDoctors(q)
}

func (s *Service) GetDoctor(id int) (Doctor, bool) {
	return s.resolver.Doctor(id)
}

// -- Visits --

func (s *Service) CreateVisit(ctx context.Context, in VisitInput) Visit {
	v := s.store.CreateVisit(in)
	s.created(ctx, EntityVisit, v.ID, s.store.Counts().Visits)
	return v
}

func (s *Service) ListVisits(q string) []VisitView {
	s.metrics.ObserveSearch(EntityVisit)
	return s.resolver.ResolveVisits(s.query.SearchVisits(q))
}

// -- Medicines --

func (s *Service) CreateMedicine(ctx context.Context, in MedicineInput) Medicine {
	m := s.store.CreateMedicine(in)
	s.created(ctx, EntityMedicine, m.ID, s.store.Counts().Medicines)
	return m
}

func (s *Service) ListMedicines(q string) []Medicine {
	s.metrics.ObserveSearch(EntityMedicine)
	return s.query.SearchMedicines(q)
}

func (s *Service) GetMedicine(id int) (Medicine, bool) {
	return s.resolver.Medicine(id)
}

// -- Rooms --

func (s *Service) CreateRoom(ctx context.Context, in RoomInput) Room {
	r := s.store.CreateRoom(in)
	s.created(ctx, EntityRoom, r.ID, s.store.Counts().Rooms)
	return r
}

func (s *Service) ListRooms(q string) []Room {
	s.metrics.ObserveSearch(EntityRoom)
	return s.query.SearchRooms(q)
}

func (s *Service) GetRoom(id int) (Room, bool) {
	return s.resolver.Room(id)
}

// UpdateRoomStatus returns the room snapshot after the update. An unknown id
// is not an error; it is only logged at debug level.
func (s *Service) UpdateRoomStatus(ctx context.Context, id int, status RoomStatus) []Room {
	rooms, updated := s.store.UpdateRoomStatus(id, status)
	s.metrics.ObserveRoomStatusUpdate(updated)
	if !updated {
		s.log(ctx).Debug().Int("room_id", id).Msg("room status update ignored: no such room")
		return rooms
	}
	s.log(ctx).Info().Int("room_id", id).Str("status", string(status)).Msg("room status updated")
	return rooms
}

// -- Statistics --

func (s *Service) Statistics(date string) Statistics {
	return s.query.Statistics(date)
}

func (s *Service) created(ctx context.Context, entity string, id, size int) {
	s.metrics.ObserveCreate(entity, size)
	s.log(ctx).Info().Str("entity", entity).Int("id", id).Msg("record created")
}
