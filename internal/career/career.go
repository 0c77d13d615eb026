// Package career models the recommendations returned by the advisory backend
// and the ranking pipeline applied before they reach the session.
package career

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Career is an immutable recommendation snapshot produced by the backend.
type Career struct {
	ID                string   `json:"id" mapstructure:"id"`
	Title             string   `json:"title" mapstructure:"title"`
	Description       string   `json:"description" mapstructure:"description"`
	MatchScore        int      `json:"matchScore" mapstructure:"matchScore"`
	Industry          string   `json:"industry" mapstructure:"industry"`
	SalaryRange       string   `json:"salaryRange" mapstructure:"salaryRange"`
	GrowthRate        string   `json:"growthRate" mapstructure:"growthRate"`
	Locations         []string `json:"locations" mapstructure:"locations"`
	KeySkills         []string `json:"keySkills" mapstructure:"keySkills"`
	RequiredEducation []string `json:"requiredEducation" mapstructure:"requiredEducation"`
	EmergingTrends    []string `json:"emergingTrends" mapstructure:"emergingTrends"`
	TopCompanies      []string `json:"topCompanies" mapstructure:"topCompanies"`
	WorkLifeBalance   int      `json:"workLifeBalance" mapstructure:"workLifeBalance"`
	JobOpenings       string   `json:"jobOpenings" mapstructure:"jobOpenings"`
}

// Decode converts a loosely typed payload (as produced by decoding AI
// generated JSON into []any) into careers. Numbers given as strings such as
// "85" or "85%" and single strings where lists are expected are accepted.
func Decode(payload any) ([]Career, error) {
	if kind := reflect.ValueOf(payload).Kind(); kind != reflect.Slice && kind != reflect.Array {
		return nil, fmt.Errorf("decode careers: expected a list, got %T", payload)
	}

	var careers []Career

	cfg := &mapstructure.DecoderConfig{
		Result:           &careers,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(lenientIntHook),
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("create careers decoder: %w", err)
	}

	if err := decoder.Decode(payload); err != nil {
		return nil, fmt.Errorf("decode careers: %w", err)
	}

	return careers, nil
}

// lenientIntHook turns "85%", " 7/10 " or "8.5" into ints before weak decoding.
func lenientIntHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Int {
		return data, nil
	}

	s := strings.TrimSpace(data.(string))
	s = strings.TrimSuffix(s, "%")
	if idx := strings.Index(s, "/"); idx > 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return data, nil
	}

	return int(math.Round(f)), nil
}
