package notebook

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/nbformat.v4.json
var nbformatSchema string

// compiledSchema parses the embedded schema once per process.
var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(nbformatSchema))
})

// ValidationError lists every schema violation found in a notebook.
type ValidationError struct {
	Problems []string
}

// Error satisfies the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("notebook does not match nbformat 4: %s", strings.Join(e.Problems, "; "))
}

// Validate checks serialized notebook bytes against the embedded nbformat 4
// schema. It returns a *ValidationError when the document is well-formed
// JSON but violates the schema.
func Validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to load nbformat schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate notebook: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, re.String())
	}
	return &ValidationError{Problems: problems}
}
