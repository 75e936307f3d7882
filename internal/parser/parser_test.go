package parser

import (
	"testing"

	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if len(p.Errors) != 0 {
		for _, e := range p.Errors {
			t.Errorf("parser error: %s", e)
		}
		t.FailNow()
	}
	return prog
}

func TestLetStatement(t *testing.T) {
	prog := parseProgram(t, `let x = 5;`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	let, ok := prog.Statements[0].(*ast.LetStatement)
	if !ok {
		t.Fatalf("expected *ast.LetStatement, got %T", prog.Statements[0])
	}
	if let.Name.Value != "x" {
		t.Errorf("expected name x, got %s", let.Name.Value)
	}
	intLit, ok := let.Value.(*ast.IntegerLiteral)
	if !ok || intLit.Value != 5 {
		t.Errorf("expected integer literal 5, got %#v", let.Value)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		wantLeft int64
	}{
		{"1 + 2 * 3;", 1},
		{"(1 + 2) * 3;", 1},
	}
	for _, tt := range tests {
		prog := parseProgram(t, tt.input)
		stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("expected expression statement, got %T", prog.Statements[0])
		}
		if _, ok := stmt.Expression.(*ast.InfixExpression); !ok {
			t.Fatalf("expected infix expression, got %T", stmt.Expression)
		}
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	// 2 ** 3 ** 2 should parse as 2 ** (3 ** 2), not (2 ** 3) ** 2.
	prog := parseProgram(t, "2 ** 3 ** 2;")
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	outer, ok := stmt.Expression.(*ast.InfixExpression)
	if !ok || outer.Operator != "**" {
		t.Fatalf("expected outer ** infix, got %#v", stmt.Expression)
	}
	if _, ok := outer.Left.(*ast.IntegerLiteral); !ok {
		t.Errorf("expected left operand to be a bare literal (2), got %T", outer.Left)
	}
	if _, ok := outer.Right.(*ast.InfixExpression); !ok {
		t.Errorf("expected right operand to be nested ** expression, got %T", outer.Right)
	}
}

func TestAssignStatementTargets(t *testing.T) {
	prog := parseProgram(t, `
		x = 1;
		obj.field = 2;
		arr[0] = 3;
	`)
	if len(prog.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Statements))
	}
	if _, ok := prog.Statements[0].(*ast.AssignStatement); !ok {
		t.Errorf("statement 0: expected *ast.AssignStatement, got %T", prog.Statements[0])
	}
	assigns := []ast.AssignTarget{ast.AssignIdentifier, ast.AssignProperty, ast.AssignIndex}
	for i, want := range assigns {
		as, ok := prog.Statements[i].(*ast.AssignStatement)
		if !ok {
			t.Fatalf("statement %d: expected *ast.AssignStatement, got %T", i, prog.Statements[i])
		}
		if as.Kind != want {
			t.Errorf("statement %d: expected kind %v, got %v", i, want, as.Kind)
		}
	}
}

func TestIfElseExpression(t *testing.T) {
	prog := parseProgram(t, `if (x) { 1; } else { 2; }`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	ifExpr, ok := stmt.Expression.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected *ast.IfExpression, got %T", stmt.Expression)
	}
	if ifExpr.Alternative == nil {
		t.Fatal("expected else branch to be parsed")
	}
}

func TestFunctionLiteralAndCall(t *testing.T) {
	prog := parseProgram(t, `let add = fn(a, b) { return a + b; }; add(1, 2);`)
	let := prog.Statements[0].(*ast.LetStatement)
	fn, ok := let.Value.(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("expected *ast.FunctionLiteral, got %T", let.Value)
	}
	if len(fn.Parameters) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Parameters))
	}

	callStmt := prog.Statements[1].(*ast.ExpressionStatement)
	call, ok := callStmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", callStmt.Expression)
	}
	if len(call.Arguments) != 2 {
		t.Errorf("expected 2 arguments, got %d", len(call.Arguments))
	}
}

func TestClassDeclaration(t *testing.T) {
	prog := parseProgram(t, `
		class Animal {
			public name = "unknown";
			private static count = 0;
			fn speak() { return this.name; }
		}
	`)
	class, ok := prog.Statements[0].(*ast.ClassStatement)
	if !ok {
		t.Fatalf("expected *ast.ClassStatement, got %T", prog.Statements[0])
	}
	if class.Name != "Animal" {
		t.Errorf("expected class name Animal, got %s", class.Name)
	}
	if len(class.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(class.Properties))
	}
	if !class.Properties[1].IsStatic {
		t.Errorf("expected second property to be static")
	}
	if len(class.Methods) != 1 || class.Methods[0].Name != "speak" {
		t.Fatalf("expected one method named speak, got %#v", class.Methods)
	}
}

func TestClassExtends(t *testing.T) {
	prog := parseProgram(t, `class Dog extends Animal { }`)
	class := prog.Statements[0].(*ast.ClassStatement)
	if class.Parent == nil || class.Parent.Value != "Animal" {
		t.Fatalf("expected parent Animal, got %#v", class.Parent)
	}
}

func TestStructDeclaration(t *testing.T) {
	prog := parseProgram(t, `struct Point { x, y }`)
	st, ok := prog.Statements[0].(*ast.StructStatement)
	if !ok {
		t.Fatalf("expected *ast.StructStatement, got %T", prog.Statements[0])
	}
	if len(st.Fields) != 2 || st.Fields[0] != "x" || st.Fields[1] != "y" {
		t.Errorf("unexpected fields: %#v", st.Fields)
	}
}

func TestMatchExpression(t *testing.T) {
	prog := parseProgram(t, `
		match value {
			0 => "zero",
			1..=5 => "small",
			Point { x, y } => "point",
			_ => "other",
		};
	`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	m, ok := stmt.Expression.(*ast.MatchExpression)
	if !ok {
		t.Fatalf("expected *ast.MatchExpression, got %T", stmt.Expression)
	}
	if len(m.Arms) != 4 {
		t.Fatalf("expected 4 arms, got %d", len(m.Arms))
	}
	if _, ok := m.Arms[0].Pattern.(ast.LiteralPattern); !ok {
		t.Errorf("arm 0: expected LiteralPattern, got %#v", m.Arms[0].Pattern)
	}
	rangePat, ok := m.Arms[1].Pattern.(ast.RangePattern)
	if !ok || !rangePat.Inclusive {
		t.Errorf("arm 1: expected inclusive RangePattern, got %#v", m.Arms[1].Pattern)
	}
	if _, ok := m.Arms[2].Pattern.(ast.StructPattern); !ok {
		t.Errorf("arm 2: expected StructPattern, got %#v", m.Arms[2].Pattern)
	}
	if _, ok := m.Arms[3].Pattern.(ast.WildcardPattern); !ok {
		t.Errorf("arm 3: expected WildcardPattern, got %#v", m.Arms[3].Pattern)
	}
}

func TestNewExpression(t *testing.T) {
	prog := parseProgram(t, `let p = new Point(1, 2);`)
	let := prog.Statements[0].(*ast.LetStatement)
	newExpr, ok := let.Value.(*ast.NewExpression)
	if !ok {
		t.Fatalf("expected *ast.NewExpression, got %T", let.Value)
	}
	if newExpr.ClassName.Value != "Point" || len(newExpr.Arguments) != 2 {
		t.Errorf("unexpected new expression: %#v", newExpr)
	}
}
