// Package profile defines the student profile collected before skills
// assessment, together with the closed option sets the form offers.
package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Profile is a validated student profile. It is replaced wholesale on save.
type Profile struct {
	Name                string   `json:"name" mapstructure:"name" validate:"required"`
	Age                 int      `json:"age" mapstructure:"age" validate:"gte=15,lte=35"`
	Education           string   `json:"education" mapstructure:"education" validate:"required,education"`
	Location            string   `json:"location" mapstructure:"location"`
	Interests           []string `json:"interests" mapstructure:"interests" validate:"min=3,unique,dive,interest"`
	Strengths           []string `json:"strengths" mapstructure:"strengths" validate:"min=3,unique,dive,strength"`
	PreferredIndustries []string `json:"preferredIndustries" mapstructure:"preferredIndustries" validate:"min=2,unique,dive,industry"`
}

var (
	Interests = []string{
		"Technology", "Business", "Healthcare", "Education", "Arts & Design",
		"Engineering", "Science", "Finance", "Marketing", "Social Work",
		"Media & Entertainment", "Law", "Environment", "Sports", "Agriculture",
	}

	Strengths = []string{
		"Problem Solving", "Leadership", "Communication", "Creativity", "Analytical Thinking",
		"Teamwork", "Adaptability", "Technical Skills", "Research", "Project Management",
		"Critical Thinking", "Innovation", "Public Speaking", "Writing", "Mathematical Skills",
	}

	Industries = []string{
		"Information Technology", "Finance & Banking", "Healthcare & Medicine",
		"Education & EdTech", "E-commerce", "Manufacturing", "Consulting",
		"Media & Entertainment", "Government & Public Sector", "Startups",
		"Pharmaceuticals", "Telecommunications", "Real Estate", "Automotive",
	}

	EducationLevels = []string{
		"10th Standard", "12th Standard (Science)", "12th Standard (Commerce)",
		"12th Standard (Arts)", "Undergraduate - 1st Year", "Undergraduate - 2nd Year",
		"Undergraduate - 3rd Year", "Undergraduate - Final Year", "Postgraduate",
		"PhD", "Diploma", "Professional Course",
	}
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		register := func(tag string, options []string) {
			// Registration only fails for empty tags or nil funcs.
			_ = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return slices.Contains(options, fl.Field().String())
			})
		}
		register("interest", Interests)
		register("strength", Strengths)
		register("industry", Industries)
		register("education", EducationLevels)
	})
	return validate
}

// Validate checks the profile against the form rules and returns a readable error.
func (p *Profile) Validate() error {
	if p == nil {
		return errors.New("profile is required")
	}

	err := instance().Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid profile: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 15 and 35", fe.Field())
	case "min":
		return fmt.Sprintf("%s needs at least %s selections", fe.Field(), fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not repeat values", fe.Field())
	default:
		return fmt.Sprintf("%s has unsupported value %q", fe.Field(), fe.Value())
	}
}
