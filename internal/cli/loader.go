package cli

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/comandalabs/comanda/internal/query"
)

//go:embed request.cue
var requestSchema string

// LoadError represents an error that occurred during request loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadRequest reads a request file (YAML; JSON parses as a YAML
// subset), checks it against the embedded CUE grammar, and decodes it
// into a query.Request.
//
// The CUE schema covers the closed axes of the DSL (subjects,
// operators, aggregations, buckets, limit bounds). Semantic checks CUE
// cannot express, like duplicate measure aliases, run afterwards
// through query.Validate.
func LoadRequest(path string) (*query.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading request file: %v", err)}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing request file: %v", err)}
	}
	if raw == nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "request file is empty"}
	}

	ctx := cuecontext.New()
	schemaVal := ctx.CompileString(requestSchema)
	if err := schemaVal.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("building request schema: %v", err)}
	}

	unified := schemaVal.LookupPath(cue.ParsePath("#Request")).Unify(ctx.Encode(raw))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeSchemaInvalid, Message: fmt.Sprintf("request does not match the DSL grammar: %v", err)}
	}

	var req query.Request
	if err := unified.Decode(&req); err != nil {
		return nil, &LoadError{Code: ErrCodeSchemaInvalid, Message: fmt.Sprintf("decoding request: %v", err)}
	}

	if errs := query.Validate(req, maxLimitFromEnv()); len(errs) > 0 {
		return nil, &LoadError{Code: ErrCodeSchemaInvalid, Message: joinErrors(errs)}
	}

	return &req, nil
}

func joinErrors(errs []error) string {
	msg := ""
	for i, err := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += err.Error()
	}
	return msg
}
