package validator

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaFS embed.FS

// Definition names a contract in schema.cue.
type Definition string

const (
	Signals     Definition = "#Signals"
	Params      Definition = "#Params"
	Entries     Definition = "#Entries"
	Connections Definition = "#Connections"
)

// Validator checks operation arguments against the embedded CUE contract.
// A cue.Context is not safe for concurrent use, so checks are serialised.
type Validator struct {
	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
}

// New creates a Validator with the embedded CUE schema
func New() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
	}, nil
}

// Check unifies data with def. It returns nil if the data conforms, or a
// *ValidationError listing every violation.
func (v *Validator) Check(op string, def Definition, data any) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return &ValidationError{Op: op, Msg: "encoding arguments", Err: err}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return &ValidationError{Op: op, Msg: "compiling arguments", Err: dataValue.Err()}
	}

	defValue := v.schema.LookupPath(cue.ParsePath(string(def)))
	if defValue.Err() != nil {
		return fmt.Errorf("looking up %s definition: %w", def, defValue.Err())
	}

	unified := defValue.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{
			Op:  op,
			Msg: fmt.Sprintf("arguments violate %s: %s", def, strings.Join(messages(err), "; ")),
		}
	}
	return nil
}

func messages(err error) []string {
	var out []string
	for _, e := range errors.Errors(err) {
		out = append(out, e.Error())
	}
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	return out
}
