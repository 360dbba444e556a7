package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema the answer must satisfy. It is compiled on
// first use; share it by pointer.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// Validate checks raw against the schema. A nil schema accepts anything.
// Failures are *ErrInvalidResponse.
func (s *Schema) Validate(raw json.RawMessage) error {
	if s == nil {
		return nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	s.once.Do(s.compile)
	if s.err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("compile schema %q: %w", s.Name, s.err)}
	}
	if err := s.compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema %q: %w", s.Name, err)}
	}
	return nil
}

// compile round-trips Definition through JSON since the compiler wants
// plain decoded values, not Go slices of strings.
func (s *Schema) compile() {
	b, err := json.Marshal(s.Definition)
	if err != nil {
		s.err = err
		return
	}
	var def any
	if err := json.Unmarshal(b, &def); err != nil {
		s.err = err
		return
	}

	url := fmt.Sprintf("schema://%s.json", s.Name)
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		s.err = err
		return
	}
	s.compiled, s.err = c.Compile(url)
}
