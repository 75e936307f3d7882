package backend

import (
	"fmt"

	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/object"
)

// evalMatch mirrors internal/compiler/patterns.go's compileMatch: try
// each arm's pattern (plus optional guard) against the scrutinee in
// order, binding pattern identifiers into a fresh child scope before
// evaluating the winning arm's body. No arm matching raises
// NonExhaustiveMatch, the same error name the compiled path raises via
// the Raise opcode.
func evalMatch(expr *ast.MatchExpression, env *environment, classReg map[string]*twClass) (object.Value, error) {
	scrutinee, err := evalExpression(expr.Value, env, classReg)
	if err != nil {
		return object.Null, err
	}

	for _, arm := range expr.Arms {
		armEnv := newEnvironment(env)
		ok, err := testPattern(arm.Pattern, scrutinee, armEnv, classReg)
		if err != nil {
			return object.Null, err
		}
		if !ok {
			continue
		}
		if arm.Guard != nil {
			g, err := evalExpression(arm.Guard, armEnv, classReg)
			if err != nil {
				return object.Null, err
			}
			if !g.Truthy() {
				continue
			}
		}
		return evalBlockAsExpr(arm.Body, armEnv, classReg)
	}

	return object.Null, fmt.Errorf("NonExhaustiveMatch: no arm matched %s", scrutinee.Inspect())
}

// testPattern reports whether pat matches v, defining any pattern
// bindings directly into env (the per-arm scope evalMatch created).
func testPattern(pat ast.Pattern, v object.Value, env *environment, classReg map[string]*twClass) (bool, error) {
	switch p := pat.(type) {
	case ast.WildcardPattern:
		return true, nil

	case ast.IdentifierPattern:
		env.define(p.Name, v)
		return true, nil

	case ast.LiteralPattern:
		lit, err := evalExpression(p.Value, env, classReg)
		if err != nil {
			return false, err
		}
		return object.Equal(v, lit), nil

	case ast.RangePattern:
		if !v.IsInt() {
			return false, nil
		}
		start, err := evalExpression(p.Start, env, classReg)
		if err != nil {
			return false, err
		}
		end, err := evalExpression(p.End, env, classReg)
		if err != nil {
			return false, err
		}
		if !start.IsInt() || !end.IsInt() {
			return false, fmt.Errorf("range pattern bounds must be Integer")
		}
		n := v.AsInt()
		if n < start.AsInt() {
			return false, nil
		}
		if p.Inclusive {
			return n <= end.AsInt(), nil
		}
		return n < end.AsInt(), nil

	case ast.StructPattern:
		if typeNameOf(v) != p.Name {
			return false, nil
		}
		for _, f := range p.Fields {
			fv, err := getProperty(v, f.Name)
			if err != nil {
				return false, nil
			}
			ok, err := testPattern(f.Pattern, fv, env, classReg)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	default:
		return false, fmt.Errorf("treewalk: unsupported pattern %T", pat)
	}
}
