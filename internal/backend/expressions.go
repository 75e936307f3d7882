package backend

import (
	"fmt"

	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/object"
)

func evalExpression(e ast.Expression, env *environment, classReg map[string]*twClass) (object.Value, error) {
	switch expr := e.(type) {
	case *ast.IntegerLiteral:
		return object.Integer(expr.Value), nil
	case *ast.BooleanLiteral:
		return object.Bool(expr.Value), nil
	case *ast.StringLiteral:
		return object.Str(expr.Value), nil
	case *ast.NullLiteral:
		return object.Null, nil

	case *ast.Identifier:
		v, ok := env.get(expr.Value)
		if !ok {
			return object.Null, fmt.Errorf("undefined identifier %q", expr.Value)
		}
		return v, nil

	case *ast.PrefixExpression:
		right, err := evalExpression(expr.Right, env, classReg)
		if err != nil {
			return object.Null, err
		}
		return evalPrefix(expr.Operator, right)

	case *ast.InfixExpression:
		return evalInfix(expr, env, classReg)

	case *ast.IfExpression:
		cond, err := evalExpression(expr.Condition, env, classReg)
		if err != nil {
			return object.Null, err
		}
		if cond.Truthy() {
			return evalBlockAsExpr(expr.Consequence, env, classReg)
		}
		if expr.Alternative != nil {
			return evalBlockAsExpr(expr.Alternative, env, classReg)
		}
		return object.Null, nil

	case *ast.FunctionLiteral:
		return object.Heap(&twFunction{Name: expr.Name, Params: expr.Parameters, Body: expr.Body, Env: env, ClassReg: classReg}), nil

	case *ast.CallExpression:
		return evalCall(expr, env, classReg)

	case *ast.ArrayLiteral:
		elems := make([]object.Value, len(expr.Elements))
		for i, el := range expr.Elements {
			v, err := evalExpression(el, env, classReg)
			if err != nil {
				return object.Null, err
			}
			elems[i] = v
		}
		return object.Heap(object.NewArray(elems)), nil

	case *ast.HashLiteral:
		h := object.NewHash()
		for _, pair := range expr.Pairs {
			k, err := evalExpression(pair.Key, env, classReg)
			if err != nil {
				return object.Null, err
			}
			v, err := evalExpression(pair.Value, env, classReg)
			if err != nil {
				return object.Null, err
			}
			if !h.Set(k, v) {
				return object.Null, fmt.Errorf("unhashable key type %s", k.TypeName())
			}
		}
		return object.Heap(h), nil

	case *ast.IndexExpression:
		left, err := evalExpression(expr.Left, env, classReg)
		if err != nil {
			return object.Null, err
		}
		idx, err := evalExpression(expr.Index, env, classReg)
		if err != nil {
			return object.Null, err
		}
		return evalIndex(left, idx)

	case *ast.NewExpression:
		return evalNew(expr, env, classReg)

	case *ast.PropertyExpression:
		obj, err := evalExpression(expr.Object, env, classReg)
		if err != nil {
			return object.Null, err
		}
		return getProperty(obj, expr.Property)

	case *ast.ThisExpression:
		v, ok := env.thisValue()
		if !ok {
			return object.Null, fmt.Errorf("this used outside a method")
		}
		return v, nil

	case *ast.SuperExpression:
		v, ok := env.thisValue()
		if !ok {
			return object.Null, fmt.Errorf("super used outside a method")
		}
		start, ok := env.currentSuperStart()
		if !ok || start == nil {
			return object.Null, fmt.Errorf("no parent class for super")
		}
		return object.Heap(&twSuperRef{Receiver: v.Obj.(*twInstance), StartClass: start}), nil

	case *ast.MatchExpression:
		return evalMatch(expr, env, classReg)

	default:
		return object.Null, fmt.Errorf("treewalk: unsupported expression %T", e)
	}
}

func evalPrefix(operator string, right object.Value) (object.Value, error) {
	switch operator {
	case "!":
		return object.Bool(!right.Truthy()), nil
	case "-":
		if !right.IsInt() {
			return object.Null, fmt.Errorf("cannot negate %s", right.TypeName())
		}
		return object.Integer(-right.AsInt()), nil
	default:
		return object.Null, fmt.Errorf("unknown prefix operator %s", operator)
	}
}

// evalInfix mirrors internal/compiler/expressions.go's compileInfix:
// every operand is evaluated unconditionally, including && and ||,
// which are strict rather than short-circuiting (spec.md §9's resolved
// Open Question, following the reference interpreter).
func evalInfix(expr *ast.InfixExpression, env *environment, classReg map[string]*twClass) (object.Value, error) {
	left, err := evalExpression(expr.Left, env, classReg)
	if err != nil {
		return object.Null, err
	}
	right, err := evalExpression(expr.Right, env, classReg)
	if err != nil {
		return object.Null, err
	}

	switch expr.Operator {
	case "&&":
		return object.Bool(left.Truthy() && right.Truthy()), nil
	case "||":
		return object.Bool(left.Truthy() || right.Truthy()), nil
	case "==":
		return object.Bool(object.Equal(left, right)), nil
	case "!=":
		return object.Bool(!object.Equal(left, right)), nil
	case "<", ">":
		if !left.IsInt() || !right.IsInt() {
			return object.Null, fmt.Errorf("cannot compare %s and %s", left.TypeName(), right.TypeName())
		}
		if expr.Operator == "<" {
			return object.Bool(left.AsInt() < right.AsInt()), nil
		}
		return object.Bool(left.AsInt() > right.AsInt()), nil
	default:
		return evalArith(expr.Operator, left, right)
	}
}

// evalArith mirrors internal/vm/vm_exec.go's execArith: Integer
// arithmetic plus the string-concat/string-repeat special cases for + and *.
func evalArith(operator string, left, right object.Value) (object.Value, error) {
	if operator == "+" {
		if ls, ok := object.AsString(left); ok {
			if rs, ok2 := object.AsString(right); ok2 {
				return object.Str(ls + rs), nil
			}
		}
	}
	if operator == "*" {
		if ls, ok := object.AsString(left); ok && right.IsInt() {
			return object.Str(repeatString(ls, right.AsInt())), nil
		}
		if rs, ok := object.AsString(right); ok && left.IsInt() {
			return object.Str(repeatString(rs, left.AsInt())), nil
		}
	}

	if !left.IsInt() || !right.IsInt() {
		return object.Null, fmt.Errorf("cannot apply %s to %s and %s", operator, left.TypeName(), right.TypeName())
	}
	x, y := left.AsInt(), right.AsInt()
	switch operator {
	case "+":
		return object.Integer(x + y), nil
	case "-":
		return object.Integer(x - y), nil
	case "*":
		return object.Integer(x * y), nil
	case "/":
		if y == 0 {
			return object.Null, fmt.Errorf("division by zero")
		}
		return object.Integer(x / y), nil
	case "%":
		if y == 0 {
			return object.Null, fmt.Errorf("modulo by zero")
		}
		return object.Integer(x % y), nil
	case "**":
		if y < 0 {
			return object.Null, fmt.Errorf("negative exponent %d", y)
		}
		return object.Integer(intPow(x, y)), nil
	default:
		return object.Null, fmt.Errorf("unknown operator %s", operator)
	}
}

func repeatString(s string, n int64) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, len(s)*int(n))
	for i := int64(0); i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func evalIndex(left, idx object.Value) (object.Value, error) {
	if !left.IsHeap() {
		return object.Null, fmt.Errorf("cannot index %s", left.TypeName())
	}
	switch coll := left.Obj.(type) {
	case *object.Array:
		if !idx.IsInt() {
			return object.Null, fmt.Errorf("array index must be an Integer, got %s", idx.TypeName())
		}
		i := idx.AsInt()
		if i < 0 || i >= int64(len(coll.Elements)) {
			return object.Null, fmt.Errorf("index %d out of bounds (len %d)", i, len(coll.Elements))
		}
		return coll.Elements[i], nil
	case *object.Hash:
		v, ok := coll.Get(idx)
		if !ok {
			return object.Null, fmt.Errorf("key %s not found", idx.Inspect())
		}
		return v, nil
	case *object.String:
		if !idx.IsInt() {
			return object.Null, fmt.Errorf("string index must be an Integer, got %s", idx.TypeName())
		}
		i := idx.AsInt()
		if i < 0 || i >= int64(len(coll.Value)) {
			return object.Null, fmt.Errorf("index %d out of bounds (len %d)", i, len(coll.Value))
		}
		return object.Str(string(coll.Value[i])), nil
	default:
		return object.Null, fmt.Errorf("cannot index %s", left.TypeName())
	}
}

func setIndex(left, idx, v object.Value) error {
	if !left.IsHeap() {
		return fmt.Errorf("cannot index-assign %s", left.TypeName())
	}
	switch coll := left.Obj.(type) {
	case *object.Array:
		if !idx.IsInt() {
			return fmt.Errorf("array index must be an Integer, got %s", idx.TypeName())
		}
		i := idx.AsInt()
		if i < 0 || i >= int64(len(coll.Elements)) {
			return fmt.Errorf("index %d out of bounds (len %d)", i, len(coll.Elements))
		}
		coll.Elements[i] = v
		return nil
	case *object.Hash:
		if !coll.Set(idx, v) {
			return fmt.Errorf("unhashable key type %s", idx.TypeName())
		}
		return nil
	default:
		return fmt.Errorf("cannot index-assign %s", left.TypeName())
	}
}

// getProperty mirrors internal/vm/vm_exec.go's execGetProperty across
// every receiver kind that carries named fields or methods.
func getProperty(recv object.Value, name string) (object.Value, error) {
	if !recv.IsHeap() {
		return object.Null, fmt.Errorf("cannot access property %q on %s", name, recv.TypeName())
	}
	switch o := recv.Obj.(type) {
	case *twInstance:
		if name == "__type_name" {
			return object.Str(o.Class.Name), nil
		}
		if v, ok := o.getField(name); ok {
			return v, nil
		}
		if m, _, ok := o.Class.lookupMethod(name); ok {
			return object.Heap(&twBoundMethod{Method: m, Receiver: o}), nil
		}
		return object.Null, fmt.Errorf("unknown property %q on %s", name, o.Class.Name)

	case *twStructInstance:
		if name == "__type_name" {
			return object.Str(o.Struct.Name), nil
		}
		if v, ok := o.fields[name]; ok {
			return v, nil
		}
		return object.Null, fmt.Errorf("unknown property %q on %s", name, o.Struct.Name)

	case *twSuperRef:
		m, _, ok := o.StartClass.lookupMethod(name)
		if !ok {
			return object.Null, fmt.Errorf("unknown method %q on super", name)
		}
		return object.Heap(&twBoundMethod{Method: m, Receiver: o.Receiver}), nil

	case *twClass:
		if v, ok := o.StaticSlots[name]; ok {
			return v, nil
		}
		if m, _, ok := o.lookupMethod(name); ok {
			return object.Heap(m), nil
		}
		return object.Null, fmt.Errorf("unknown static property %q on %s", name, o.Name)

	case *object.Hash:
		v, ok := o.Get(object.Str(name))
		if !ok {
			return object.Null, fmt.Errorf("unknown property %q", name)
		}
		return v, nil

	default:
		return object.Null, fmt.Errorf("cannot access property %q on %s", name, recv.TypeName())
	}
}

func setProperty(recv object.Value, name string, v object.Value) error {
	if !recv.IsHeap() {
		return fmt.Errorf("cannot set property %q on %s", name, recv.TypeName())
	}
	switch o := recv.Obj.(type) {
	case *twInstance:
		if !o.setField(name, v) {
			return fmt.Errorf("unknown property %q on %s", name, o.Class.Name)
		}
		return nil
	case *twStructInstance:
		if !o.setField(name, v) {
			return fmt.Errorf("unknown property %q on %s", name, o.Struct.Name)
		}
		return nil
	case *twClass:
		o.StaticSlots[name] = v
		return nil
	case *object.Hash:
		o.Set(object.Str(name), v)
		return nil
	default:
		return fmt.Errorf("cannot set property %q on %s", name, recv.TypeName())
	}
}
