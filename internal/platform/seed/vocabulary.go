package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the word pools the generator draws from.
type Vocabulary struct {
	Names         []string `yaml:"names"`
	Cities        []string `yaml:"cities"`
	Diseases      []string `yaml:"diseases"`
	Specialties   []string `yaml:"specialties"`
	Medicines     []string `yaml:"medicines"`
	Strengths     []string `yaml:"strengths"`
	RoomTypes     []string `yaml:"room_types"`
	PhonePrefixes []string `yaml:"phone_prefixes"`
	Schedule      string   `yaml:"schedule"`
}

// DefaultVocabulary returns the built-in pools.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Names: []string{
			"Aram", "Sozan", "Hemin", "Zhala", "Karwan", "Dilnia", "Bakhtiar",
			"Narmin", "Rebwar", "Shilan", "Aso", "Sara", "Kamal", "Ahmad", "Ali",
			"Qadir", "Jamal", "Muhammad", "Osman", "Karim",
		},
		Cities: []string{
			"Sulaymaniyah", "Erbil", "Kirkuk", "Duhok", "Halabja", "Ranya",
			"Koya", "Zakho", "Chamchamal",
		},
		Diseases: []string{
			"Common cold", "Headache", "Influenza", "Diabetes", "Hypertension",
			"Back pain", "Allergy", "Cough", "Stomach ache", "Tooth decay",
		},
		Specialties: []string{
			"General", "Dentistry", "Pediatrics", "Internal medicine", "Cardiology",
			"Dermatology", "ENT", "Orthopedics", "Obstetrics and gynecology",
		},
		Medicines: []string{
			"Amoxicillin", "Panadol", "Aspirin", "Voltaren", "Brufen", "Vitamin C",
			"Omeprazole", "Losartan", "Amlodipine", "Salbutamol",
		},
		Strengths:     []string{"500mg", "250mg", "100mg"},
		RoomTypes:     []string{"Single", "Double", "VIP", "Suite"},
		PhonePrefixes: []string{"70", "50", "51", "71"},
		Schedule:      "Saturday-Thursday, 9am-5pm",
	}
}

// LoadVocabulary reads a YAML vocabulary file. Pools missing or empty in the
// file keep their default values.
func LoadVocabulary(path string) (Vocabulary, error) {
	v := DefaultVocabulary()
	data, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("read vocabulary %s: %w", path, err)
	}

	var file Vocabulary
	if err := yaml.Unmarshal(data, &file); err != nil {
		return v, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	v.merge(file)
	return v, nil
}

func (v *Vocabulary) merge(o Vocabulary) {
	override := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	override(&v.Names, o.Names)
	override(&v.Cities, o.Cities)
	override(&v.Diseases, o.Diseases)
	override(&v.Specialties, o.Specialties)
	override(&v.Medicines, o.Medicines)
	override(&v.Strengths, o.Strengths)
	override(&v.RoomTypes, o.RoomTypes)
	override(&v.PhonePrefixes, o.PhonePrefixes)
	if o.Schedule != "" {
		v.Schedule = o.Schedule
	}
}
