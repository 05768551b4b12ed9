package intake

import "fmt"

// fieldSetters maps dotted leaf paths to explicit setters. Every path owns
// exactly one field; there is no merge of partial objects into the form.
var fieldSetters = map[string]func(*FormState, string){
	"basicInfo.name":        func(f *FormState, v string) { f.BasicInfo.Name = v },
	"basicInfo.description": func(f *FormState, v string) { f.BasicInfo.Description = v },
	"basicInfo.status":      func(f *FormState, v string) { f.BasicInfo.Status = v },

	"dentalCheckup.oralHygiene":    func(f *FormState, v string) { f.Checkup.OralHygiene = v },
	"dentalCheckup.gingivalStatus": func(f *FormState, v string) { f.Checkup.GingivalStatus = v },
	"dentalCheckup.plaqueIndex":    func(f *FormState, v string) { f.Checkup.PlaqueIndex = v },
	"dentalCheckup.bleedingIndex":  func(f *FormState, v string) { f.Checkup.BleedingIndex = v },
	"dentalCheckup.mobility":       func(f *FormState, v string) { f.Checkup.Mobility = v },
	"dentalCheckup.pocketDepth":    func(f *FormState, v string) { f.Checkup.PocketDepth = v },
	"dentalCheckup.notes":          func(f *FormState, v string) { f.Checkup.Notes = v },

	"diagnosis.chiefComplaint":   func(f *FormState, v string) { f.Diagnosis.ChiefComplaint = v },
	"diagnosis.clinicalFindings": func(f *FormState, v string) { f.Diagnosis.ClinicalFindings = v },
	"diagnosis.diagnosis":        func(f *FormState, v string) { f.Diagnosis.Diagnosis = v },
	"diagnosis.treatmentPlan":    func(f *FormState, v string) { f.Diagnosis.TreatmentPlan = v },
}

// UpdateField sets a leaf field by dotted path. All addressable fields are
// optional free text, so the value itself is never validated; only the path
// must name a known field.
func (f *FormState) UpdateField(path, value string) error {
	set, ok := fieldSetters[path]
	if !ok {
		return fmt.Errorf("unknown form field: %s", path)
	}
	set(f, value)
	return nil
}

// FieldPaths returns every addressable dotted path, for API discovery.
func FieldPaths() []string {
	paths := make([]string, 0, len(fieldSetters))
	for p := range fieldSetters {
		paths = append(paths, p)
	}
	return paths
}
