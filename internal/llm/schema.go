package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Structural schemas for each generation stage. These are deliberately
// permissive: every field is nullable, nothing is required, and unknown
// fields pass through — the defense is against MALFORMED model output
// (wrong shapes that would corrupt downstream parsing), never against
// wrong values.

const extractionSchemaJSON = `{
  "type": "object",
  "properties": {
    "provider":       {"type": ["string", "null"]},
    "invoice_number": {"type": ["string", "number", "null"]},
    "issue_date":     {"type": ["string", "null"]},
    "due_date":       {"type": ["string", "null"]},
    "customer_name":  {"type": ["string", "null"]},
    "customer_id":    {"type": ["string", "number", "null"]},
    "total_amount":   {"type": ["number", "null"]},
    "period_start":   {"type": ["string", "null"]},
    "period_end":     {"type": ["string", "null"]},
    "total_kwh":      {"type": ["number", "null"]},
    "rate_per_kwh":   {"type": ["number", "null"]},
    "peak_kwh":       {"type": ["number", "null"]},
    "off_peak_kwh":   {"type": ["number", "null"]},
    "items": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "description": {"type": ["string", "null"]},
          "quantity":    {"type": ["number", "null"]},
          "unit_price":  {"type": ["number", "null"]},
          "total":       {"type": ["number", "null"]}
        }
      }
    },
    "taxes": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "number"}
    }
  }
}`

const analysisSchemaJSON = `{
  "type": "object",
  "properties": {
    "issues": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "description": {"type": ["string", "null"]},
          "severity":    {"type": ["string", "null"]}
        }
      }
    }
  }
}`

const recommendationSchemaJSON = `{
  "type": "object",
  "properties": {
    "recommendations": {
      "type": ["array", "null"],
      "items": {"type": "string"}
    },
    "potential_savings": {"type": ["number", "null"]},
    "efficiency_score":  {"type": ["number", "null"]}
  }
}`

var (
	extractionSchema     = jsonschema.MustCompileString("extraction.json", extractionSchemaJSON)
	analysisSchema       = jsonschema.MustCompileString("analysis.json", analysisSchemaJSON)
	recommendationSchema = jsonschema.MustCompileString("recommendation.json", recommendationSchemaJSON)
)

// validateShape checks raw JSON against a stage schema.
func validateShape(schema *jsonschema.Schema, raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("shape validation: %w", err)
	}
	return nil
}
