package fakeapi

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed questions.json
var questionsJSON []byte

//go:embed bank_schema.json
var bankSchemaJSON []byte

// Item is one question in the built-in bank.
type Item struct {
	ID         string `json:"id"`
	Subject    string `json:"subject"`
	Chapter    string `json:"chapter"`
	Difficulty string `json:"difficulty"`
	Text       string `json:"text"`

	// Options maps answer labels to answer text. Answer names the
	// correct label, which must be one of the keys.
	Options map[string]string `json:"options"`
	Answer  string            `json:"answer"`

	TimeLimitSeconds int `json:"time_limit_seconds"`
}

// loadBank parses the embedded question bank after checking it against
// the bank schema.
func loadBank() ([]Item, error) {
	if err := validateBank(questionsJSON); err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(questionsJSON, &items); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	for _, item := range items {
		if _, ok := item.Options[item.Answer]; !ok {
			return nil, fmt.Errorf("question %s: answer %q is not an option label", item.ID, item.Answer)
		}
	}
	return items, nil
}

// validateBank checks raw bank JSON against the embedded schema.
func validateBank(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("question bank is not valid JSON: %w", err)
	}

	// The jsonschema library expects a parsed JSON value (any), not raw bytes.
	var schemaDoc any
	if err := json.Unmarshal(bankSchemaJSON, &schemaDoc); err != nil {
		return fmt.Errorf("parse bank schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("bank://questions.json", schemaDoc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("bank://questions.json")
	if err != nil {
		return fmt.Errorf("compile bank schema: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("question bank invalid: %w", err)
	}
	return nil
}
