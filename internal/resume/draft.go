// Package resume assembles a résumé through a nine-step wizard and drives
// summary generation, HTML rendering and PDF export.
package resume

import (
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/career-compass/internal/backend"
	"github.com/spigell/career-compass/internal/wizard"
)

// Draft is the accumulating résumé, keyed by field name.
type Draft map[string]any

const (
	StepContact        = "Contact Info"
	StepExperience     = "Work Experience"
	StepSummary        = "Professional Summary"
	StepEducation      = "Education"
	StepSkills         = "Skills"
	StepCertifications = "Certifications"
	StepProjects       = "Projects"
	StepLanguages      = "Languages"
	StepHobbies        = "Hobbies"
)

// Steps lists the builder pages in order with the fields each owns.
var Steps = []wizard.Step{
	{Name: StepContact, Fields: []string{"name", "phone", "email", "linkedin", "portfolio", "address"}},
	{Name: StepExperience, Fields: []string{"experiences"}},
	{Name: StepSummary, Fields: []string{"summary"}},
	{Name: StepEducation, Fields: []string{"education"}},
	{Name: StepSkills, Fields: []string{"skills"}},
	{Name: StepCertifications, Fields: []string{"certifications"}},
	{Name: StepProjects, Fields: []string{"projects"}},
	{Name: StepLanguages, Fields: []string{"languages"}},
	{Name: StepHobbies, Fields: []string{"hobbies"}},
}

// Merge returns a copy of d with values applied.
func Merge(d Draft, values map[string]any) (Draft, error) {
	out := make(Draft, len(d)+len(values))
	maps.Copy(out, d)
	maps.Copy(out, values)
	return out, nil
}

// Data decodes the draft into the typed résumé. Comma-separated strings are
// accepted where lists are expected.
func (d Draft) Data() (backend.ResumeData, error) {
	var data backend.ResumeData

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &data,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(commaListHook),
	})
	if err != nil {
		return data, fmt.Errorf("create resume decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(d)); err != nil {
		return data, fmt.Errorf("decode resume draft: %w", err)
	}

	return data, nil
}

func commaListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.String {
		return data, nil
	}
	return SplitList(data.(string)), nil
}

// SplitList splits a comma-separated entry, dropping blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ExperienceText renders experiences as "<title> at <company>: <achievements>"
// lines for summary generation.
func ExperienceText(experiences []backend.Experience) string {
	lines := make([]string, 0, len(experiences))
	for _, exp := range experiences {
		lines = append(lines, fmt.Sprintf("%s at %s: %s", exp.JobTitle, exp.Company, strings.Join(exp.Achievements, ", ")))
	}
	return strings.Join(lines, "\n")
}
