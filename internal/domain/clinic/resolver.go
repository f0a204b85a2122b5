package clinic

// Display placeholders for references that do not resolve.
const (
	UnknownPatientName = "Unknown patient"
	UnknownDoctorName  = "Unknown doctor"
	UnassignedDoctor   = "Unassigned"
)

// Resolver turns weak id references into the records they point at. Lookups
// scan the current snapshot and report ok == false when nothing matches.
type Resolver struct {
	store *Store
}

func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) Doctor(id int) (Doctor, bool) {
	return findDoctor(r.store.Doctors(), id)
}

func (r *Resolver) Patient(id int) (Patient, bool) {
	return findPatient(r.store.Patients(), id)
}

func (r *Resolver) Medicine(id int) (Medicine, bool) {
	for _, m := range r.store.Medicines() {
		if m.ID == id {
			return m, true
		}
	}
	return Medicine{}, false
}

func (r *Resolver) Room(id int) (Room, bool) {
	for _, rm := range r.store.Rooms() {
		if rm.ID == id {
			return rm, true
		}
	}
	return Room{}, false
}

// PatientDoctor resolves the patient's assigned doctor. A nil DoctorID is
// reported as not found.
func (r *Resolver) PatientDoctor(p Patient) (Doctor, bool) {
	if p.DoctorID == nil {
		return Doctor{}, false
	}
	return r.Doctor(*p.DoctorID)
}

func (r *Resolver) VisitPatient(v Visit) (Patient, bool) {
	return r.Patient(v.PatientID)
}

func (r *Resolver) VisitDoctor(v Visit) (Doctor, bool) {
	return r.Doctor(v.DoctorID)
}

// PatientView is a patient row with its doctor's display name.
type PatientView struct {
	Patient
	DoctorName string `json:"doctor_name"`
}

// VisitView is a visit row with the display names of both references.
type VisitView struct {
	Visit
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
}

// batchRefs pins one snapshot of patients and doctors so that resolving many
// rows sees a consistent view.
type batchRefs struct {
	patients []Patient
	doctors  []Doctor
}

func (r *Resolver) batch() batchRefs {
	return batchRefs{patients: r.store.Patients(), doctors: r.store.Doctors()}
}

func (b batchRefs) patient(id int) (Patient, bool) { return findPatient(b.patients, id) }
func (b batchRefs) doctor(id int) (Doctor, bool)   { return findDoctor(b.doctors, id) }

// ResolvePatients builds display rows in input order.
func (r *Resolver) ResolvePatients(patients []Patient) []PatientView {
	refs := r.batch()
	out := make([]PatientView, 0, len(patients))
	for _, p := range patients {
		name := UnassignedDoctor
		if p.DoctorID != nil {
			if d, ok := refs.doctor(*p.DoctorID); ok {
				name = d.Name
			}
		}
		out = append(out, PatientView{Patient: p, DoctorName: name})
	}
	return out
}

// ResolveVisits builds display rows in input order.
func (r *Resolver) ResolveVisits(visits []Visit) []VisitView {
	refs := r.batch()
	out := make([]VisitView, 0, len(visits))
	for _, v := range visits {
		row := VisitView{Visit: v, PatientName: UnknownPatientName, DoctorName: UnknownDoctorName}
		if p, ok := refs.patient(v.PatientID); ok {
			row.PatientName = p.Name
		}
		if d, ok := refs.doctor(v.DoctorID); ok {
			row.DoctorName = d.Name
		}
		out = append(out, row)
	}
	return out
}

func findDoctor(doctors []Doctor, id int) (Doctor, bool) {
	for _, d := range doctors {
		if d.ID == id {
			return d, true
		}
	}
	return Doctor{}, false
}

func findPatient(patients []Patient, id int) (Patient, bool) {
	for _, p := range patients {
		if p.ID == id {
			return p, true
		}
	}
	return Patient{}, false
}
