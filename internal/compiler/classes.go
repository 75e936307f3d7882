package compiler

import (
	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/bytecode"
	"github.com/sofia-lang/sofia/internal/object"
)

// compileThunk wraps expr as a zero-argument compiled function body — the
// "default_value_expr_compiled_as_thunk" mechanism spec.md §3 assigns to
// every property's default value, so field initializers run through the
// normal Call machinery rather than a separate constant-evaluation path.
func (c *Compiler) compileThunk(expr ast.Expression) (*object.CompiledFunction, error) {
	line := expr.Pos().Line

	skip := c.emitJump(bytecode.Jump, line)
	codeOffset := c.chunk.Len()

	fn := &object.CompiledFunction{CodeOffset: codeOffset}
	nested := &Compiler{
		chunk:        c.chunk,
		fn:           fn,
		funcType:     ThunkFunction,
		codeOffset:   codeOffset,
		enclosing:    c,
		currentClass: c.currentClass,
		classReg:     c.classReg,
	}
	if err := nested.compileExpression(expr); err != nil {
		return nil, err
	}
	nested.emitOp(bytecode.Return, line)

	fn.CodeLength = c.chunk.Len() - codeOffset
	c.patchJump(skip)
	return fn, nil
}

// compileProperties lowers a class/struct's field declarations into
// object.Property records, compiling each declared default as a thunk.
func (c *Compiler) compileProperties(decls []ast.PropertyDecl) ([]object.Property, error) {
	props := make([]object.Property, len(decls))
	for i, d := range decls {
		p := object.Property{
			Name:     d.Name,
			Access:   object.AccessKind(d.Access),
			IsStatic: d.IsStatic,
		}
		if d.Default != nil {
			thunk, err := c.compileThunk(d.Default)
			if err != nil {
				return nil, err
			}
			p.Default = thunk
		}
		props[i] = p
	}
	return props, nil
}

// compileClass lowers `class Name [extends Parent] { ... }` (spec.md
// §3/§4.2). The class record is assembled entirely at compile time —
// property thunks and method bodies are compiled inline into the shared
// buffer — and installed as a constant the DeclareClass opcode binds to
// a global (or local) at the declaration site.
func (c *Compiler) compileClass(s *ast.ClassStatement) error {
	line := s.Pos().Line

	var parent *object.Class
	if s.Parent != nil {
		p, ok := c.classReg[s.Parent.Value]
		if !ok {
			return newError(UnknownIdentifier, line, s.Pos().Column, "unknown parent class %q", s.Parent.Value)
		}
		parent = p
	}

	class := object.NewClass(s.Name, parent)

	props, err := c.compileProperties(s.Properties)
	if err != nil {
		return err
	}
	class.Properties = props

	for _, m := range s.Methods {
		fn, err := c.compileFunctionLiteral(m.Function, MethodFunction, class)
		if err != nil {
			return err
		}
		class.Methods[m.Name] = &object.Function{Proto: fn}
	}

	if c.classReg != nil {
		c.classReg[s.Name] = class
	}

	idx := c.chunk.AddConstant(object.Heap(class))
	c.emitU16(bytecode.DeclareClass, int(idx), line)
	return c.bindDeclaration(s.Name, line)
}

// compileStruct lowers `struct Name { field, ... }` (spec.md §3): a
// closed field set with no methods and no parent, per class.go's
// documented deviation extending ClassInstance's closed-field policy to
// structs.
func (c *Compiler) compileStruct(s *ast.StructStatement) error {
	line := s.Pos().Line
	st := object.NewStruct(s.Name)
	st.Properties = make([]object.Property, len(s.Fields))
	for i, f := range s.Fields {
		st.Properties[i] = object.Property{Name: f}
	}
	idx := c.chunk.AddConstant(object.Heap(st))
	c.emitU16(bytecode.DeclareStruct, int(idx), line)
	return c.bindDeclaration(s.Name, line)
}

// compileInterface lowers `interface Name { method(...); ... }`. Per
// SPEC_FULL.md's resolved Open Question, interface conformance is never
// statically or dynamically checked — the descriptor exists purely so
// reflection/documentation tooling can introspect it.
func (c *Compiler) compileInterface(s *ast.InterfaceStatement) error {
	line := s.Pos().Line
	iface := object.NewInterface(s.Name, s.MethodNames)
	idx := c.chunk.AddConstant(object.Heap(iface))
	c.emitU16(bytecode.DeclareInterface, int(idx), line)
	return c.bindDeclaration(s.Name, line)
}

// bindDeclaration stores the value left on top of the stack (a freshly
// declared class/struct/interface) under name, exactly like a let
// binding at the same scope depth.
func (c *Compiler) bindDeclaration(name string, line int) error {
	if c.scopeDepth == 0 && c.enclosing == nil {
		idx := c.chunk.AddConstant(object.Str(name))
		c.emitU16(bytecode.SetGlobal, int(idx), line)
		return nil
	}
	slot, err := c.addLocal(name, line, 0)
	if err != nil {
		return err
	}
	c.emitU8(bytecode.SetLocal, slot, line)
	return nil
}
