package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() Profile {
	return Profile{
		Name:                "Asha",
		Age:                 20,
		Education:           "Undergraduate - 2nd Year",
		Location:            "Pune",
		Interests:           []string{"Technology", "Science", "Finance"},
		Strengths:           []string{"Leadership", "Writing", "Research"},
		PreferredIndustries: []string{"Startups", "Consulting"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantErr string
	}{
		{name: "valid", mutate: func(*Profile) {}},
		{name: "missing name", mutate: func(p *Profile) { p.Name = "" }, wantErr: "Name is required"},
		{name: "too young", mutate: func(p *Profile) { p.Age = 14 }, wantErr: "Age must be between 15 and 35"},
		{name: "too old", mutate: func(p *Profile) { p.Age = 36 }, wantErr: "Age must be between 15 and 35"},
		{name: "unknown education", mutate: func(p *Profile) { p.Education = "Kindergarten" }, wantErr: "Education has unsupported value"},
		{name: "too few interests", mutate: func(p *Profile) { p.Interests = p.Interests[:2] }, wantErr: "Interests needs at least 3"},
		{name: "repeated strengths", mutate: func(p *Profile) { p.Strengths = []string{"Writing", "Writing", "Research"} }, wantErr: "Strengths must not repeat"},
		{name: "interest outside closed set", mutate: func(p *Profile) { p.Interests[0] = "Astrology" }, wantErr: "unsupported value \"Astrology\""},
		{name: "one industry", mutate: func(p *Profile) { p.PreferredIndustries = []string{"Startups"} }, wantErr: "PreferredIndustries needs at least 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNil(t *testing.T) {
	var p *Profile
	assert.EqualError(t, p.Validate(), "profile is required")
}
