// Package engine decides delivery availability by evaluating an OPA Rego policy.
package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Query is the rule every delivery policy must define: a boolean for input.pincode.
const Query = "data.mithai.delivery.available"

// DefaultPolicy serves the Mumbai, Delhi and Bengaluru central pincodes.
const DefaultPolicy = `package mithai.delivery

default available := false

serviceable_pincodes := {
	"400001", "400002", "400003", "400004", "400005", "400006", "400007", "400008",
	"400009", "400010", "400011", "400012", "400013", "400014", "400015", "400016",
	"400017", "400018", "400019", "400020", "400021", "400022", "400023", "400024",
	"400025", "400026", "400027", "400028", "400029", "400030", "400031", "400032",
	"110001", "110002", "110003", "110004", "110005", "110006", "110007", "110008",
	"560001", "560002", "560003", "560004", "560005", "560006", "560007", "560008",
}

available if {
	input.pincode in serviceable_pincodes
}
`

// Evaluator reports whether a pincode is served.
type Evaluator interface {
	Available(ctx context.Context, pincode string) (bool, error)
}

// OPAEvaluator evaluates a compiled Rego module.
type OPAEvaluator struct {
	query rego.PreparedEvalQuery
}

var _ Evaluator = (*OPAEvaluator)(nil)

// NewOPAEvaluator compiles module (DefaultPolicy when empty) and prepares the availability query.
func NewOPAEvaluator(ctx context.Context, module string) (*OPAEvaluator, error) {
	if module == "" {
		module = DefaultPolicy
	}
	pq, err := rego.New(
		rego.Query(Query),
		rego.Module("delivery.rego", module),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile delivery policy: %w", err)
	}
	return &OPAEvaluator{query: pq}, nil
}

// NewOPAEvaluatorFromFile compiles the module at path, or DefaultPolicy when path is empty.
func NewOPAEvaluatorFromFile(ctx context.Context, path string) (*OPAEvaluator, error) {
	if path == "" {
		return NewOPAEvaluator(ctx, "")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read delivery policy: %w", err)
	}
	return NewOPAEvaluator(ctx, string(raw))
}

// Available evaluates the policy for pincode. A policy that yields no boolean is an error.
func (e *OPAEvaluator) Available(ctx context.Context, pincode string) (bool, error) {
	rs, err := e.query.Eval(ctx, rego.EvalInput(map[string]interface{}{"pincode": pincode}))
	if err != nil {
		return false, fmt.Errorf("eval delivery policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, fmt.Errorf("delivery policy returned no result")
	}
	v, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("delivery policy returned %T, want bool", rs[0].Expressions[0].Value)
	}
	return v, nil
}

// HealthCheck evaluates the policy once with a sample input. Returns nil when it yields a boolean.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	_, err := e.Available(ctx, "000000")
	return err
}
