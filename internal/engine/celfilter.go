package engine

import (
	"strings"

	"github.com/google/cel-go/cel"
)

// listFilter wraps a compiled CEL program evaluated against stream
// snapshots in ListStreams. When no expression is given, Eval always
// returns true.
type listFilter struct {
	prog    cel.Program
	enabled bool
}

func newListFilter(expr string) (listFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return listFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("id", cel.UintType),
		cel.Variable("sender", cel.StringType),
		cel.Variable("recipient", cel.StringType),
		cel.Variable("status", cel.StringType),
		cel.Variable("deposit", cel.IntType),
		cel.Variable("rate", cel.IntType),
		cel.Variable("withdrawn", cel.IntType),
		cel.Variable("vested", cel.IntType),
		cel.Variable("withdrawable", cel.IntType),
		cel.Variable("start", cel.UintType),
		cel.Variable("cliff", cel.UintType),
		cel.Variable("end", cel.UintType),
		cel.Variable("now", cel.UintType),
	)
	if err != nil {
		return listFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return listFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return listFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return listFilter{}, err
	}
	return listFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against a snapshot. Evaluation
// errors count as non-matches.
func (f listFilter) Eval(st State) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"id":           st.ID,
		"sender":       st.Sender,
		"recipient":    st.Recipient,
		"status":       st.Status,
		"deposit":      st.DepositAmount,
		"rate":         st.RatePerSecond,
		"withdrawn":    st.WithdrawnAmount,
		"vested":       st.VestedAmount,
		"withdrawable": st.Withdrawable,
		"start":        st.StartTime,
		"cliff":        st.CliffTime,
		"end":          st.EndTime,
		"now":          st.AsOf,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
