package intake

import "testing"

func TestUpdateField(t *testing.T) {
	form := NewFormState()

	cases := []struct {
		path string
		get  func() string
	}{
		{"basicInfo.name", func() string { return form.BasicInfo.Name }},
		{"basicInfo.description", func() string { return form.BasicInfo.Description }},
		{"basicInfo.status", func() string { return form.BasicInfo.Status }},
		{"dentalCheckup.oralHygiene", func() string { return form.Checkup.OralHygiene }},
		{"dentalCheckup.gingivalStatus", func() string { return form.Checkup.GingivalStatus }},
		{"dentalCheckup.plaqueIndex", func() string { return form.Checkup.PlaqueIndex }},
		{"dentalCheckup.bleedingIndex", func() string { return form.Checkup.BleedingIndex }},
		{"dentalCheckup.mobility", func() string { return form.Checkup.Mobility }},
		{"dentalCheckup.pocketDepth", func() string { return form.Checkup.PocketDepth }},
		{"dentalCheckup.notes", func() string { return form.Checkup.Notes }},
		{"diagnosis.chiefComplaint", func() string { return form.Diagnosis.ChiefComplaint }},
		{"diagnosis.clinicalFindings", func() string { return form.Diagnosis.ClinicalFindings }},
		{"diagnosis.diagnosis", func() string { return form.Diagnosis.Diagnosis }},
		{"diagnosis.treatmentPlan", func() string { return form.Diagnosis.TreatmentPlan }},
	}

	for _, tc := range cases {
		want := "value for " + tc.path
		if err := form.UpdateField(tc.path, want); err != nil {
			t.Errorf("%s: unexpected error: %v", tc.path, err)
			continue
		}
		if got := tc.get(); got != want {
			t.Errorf("%s: expected %q, got %q", tc.path, want, got)
		}
	}
}

func TestUpdateField_UnknownPath(t *testing.T) {
	form := NewFormState()
	if err := form.UpdateField("diagnosis.severity", "high"); err == nil {
		t.Error("expected error for unknown path")
	}
	if err := form.UpdateField("", "x"); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestFieldPaths(t *testing.T) {
	paths := FieldPaths()
	if len(paths) != len(fieldSetters) {
		t.Errorf("expected %d paths, got %d", len(fieldSetters), len(paths))
	}
}
