package record

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"docsense/internal/domain"
	"docsense/internal/prompt"
)

// ValidationMode controls how schema violations are handled.
type ValidationMode string

const (
	// ModeLenient logs violations and lets the record pass. This preserves
	// the original behavior of tolerating model drift and is the default.
	ModeLenient ValidationMode = "lenient"
	// ModeStrict rejects records that violate the category schema.
	ModeStrict ValidationMode = "strict"
	// ModeOff skips validation entirely.
	ModeOff ValidationMode = "off"
)

// ParseValidationMode maps a config string to a ValidationMode, defaulting to lenient.
func ParseValidationMode(s string) ValidationMode {
	switch strings.ToLower(s) {
	case string(ModeStrict):
		return ModeStrict
	case string(ModeOff):
		return ModeOff
	default:
		return ModeLenient
	}
}

// Validator checks extracted records against the per-category schemas the
// prompts describe. Schemas are compiled once at construction.
type Validator struct {
	mode    ValidationMode
	schemas map[domain.DocumentCategory]*jsonschema.Schema
}

// NewValidator compiles the per-category schemas. Fails only on a broken
// schema source, which is a programming error.
func NewValidator(mode ValidationMode) (*Validator, error) {
	schemas := make(map[domain.DocumentCategory]*jsonschema.Schema, 4)
	for _, cat := range []domain.DocumentCategory{
		domain.CategoryInvoice, domain.CategoryContract,
		domain.CategoryForm, domain.CategoryGeneral,
	} {
		name := fmt.Sprintf("%s.json", cat)
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(name, strings.NewReader(prompt.JSONSchema(cat))); err != nil {
			return nil, fmt.Errorf("adding %s schema: %w", cat, err)
		}
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compiling %s schema: %w", cat, err)
		}
		schemas[cat] = schema
	}
	return &Validator{mode: mode, schemas: schemas}, nil
}

// Validate checks rec against the schema for category. In lenient mode a
// violation is logged and nil is returned; in strict mode it is returned.
func (v *Validator) Validate(category domain.DocumentCategory, rec domain.ExtractedRecord) error {
	if v == nil || v.mode == ModeOff {
		return nil
	}

	schema, ok := v.schemas[category]
	if !ok {
		schema = v.schemas[domain.CategoryGeneral]
	}

	// Round-trip through encoding/json so json.Number and nested types take
	// the generic shapes the validator expects.
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record for validation: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("decoding record for validation: %w", err)
	}

	if err := schema.Validate(generic); err != nil {
		if v.mode == ModeStrict {
			return fmt.Errorf("record does not match %s schema: %w", category, err)
		}
		log.Printf("record.Validator: %s record deviates from requested schema (accepted): %v", category, err)
	}
	return nil
}
