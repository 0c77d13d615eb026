package backend

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// responseSchemas maps an operation to its embedded response schema file.
var responseSchemas = map[string]string{
	OpRecommendations: "schemas/recommendations.json",
	OpCertifications:  "schemas/certifications.json",
	OpJobListings:     "schemas/job_listings.json",
	OpChat:            "schemas/chat.json",
	OpInterview:       "schemas/interview.json",
	OpResumeSummary:   "schemas/resume_summary.json",
	OpResumeHTML:      "schemas/resume_html.json",
}

var (
	schemasOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	schemaErr   error
)

func loadSchemas() {
	compiled = make(map[string]*gojsonschema.Schema, len(responseSchemas))
	for op, file := range responseSchemas {
		raw, err := schemaFS.ReadFile(file)
		if err != nil {
			schemaErr = fmt.Errorf("read schema %s: %w", file, err)
			return
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			schemaErr = fmt.Errorf("compile schema %s: %w", file, err)
			return
		}
		compiled[op] = schema
	}
}

// ValidateResponse checks a success body for op against its schema.
func ValidateResponse(op string, data []byte) error {
	return validateResponse(op, data)
}

func validateResponse(op string, data []byte) error {
	schemasOnce.Do(loadSchemas)
	if schemaErr != nil {
		return Malformed(op, "%v", schemaErr)
	}

	schema, ok := compiled[op]
	if !ok {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Malformed(op, "decode body: %v", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return Malformed(op, "%s", strings.Join(problems, "; "))
	}

	return nil
}
