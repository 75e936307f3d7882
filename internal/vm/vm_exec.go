package vm

import (
	"github.com/sofia-lang/sofia/internal/bytecode"
	"github.com/sofia-lang/sofia/internal/object"
)

// superRef is the synthetic value `Super` pushes (spec.md §4.3/§9): it
// carries the receiver so `this` stays intact and the class to resume
// method lookup from — the parent of the lexically enclosing method's
// OwnerClass, not the receiver's dynamic class.
type superRef struct {
	Receiver   *object.ClassInstance
	StartClass *object.Class
}

func (*superRef) Type() string    { return "Super" }
func (*superRef) Inspect() string { return "<super>" }

// step fetches, decodes and executes exactly one instruction. unwound
// reports that a Return just tore down a frame; runLoop only inspects
// result when unwound is true.
func (vm *VM) step() (result object.Value, unwound bool, err error) {
	frame := vm.frame
	op := bytecode.Opcode(vm.chunk.Code[frame.ip])
	frame.ip++

	if vm.DebugTrace && vm.Trace != nil {
		vm.emitTrace(op)
	}

	switch op {
	case bytecode.Constant:
		idx := vm.readU16()
		err = vm.push(vm.chunk.Constants[idx])

	case bytecode.True:
		err = vm.push(object.Bool(true))
	case bytecode.False:
		err = vm.push(object.Bool(false))
	case bytecode.NullOp:
		err = vm.push(object.Null)
	case bytecode.Pop:
		var v object.Value
		v, err = vm.pop()
		if err == nil {
			vm.lastPopped = v
		}

	case bytecode.Add, bytecode.Sub, bytecode.Mul, bytecode.Div, bytecode.Mod, bytecode.Pow:
		err = vm.execArith(op)
	case bytecode.Neg:
		err = vm.execNeg()
	case bytecode.Not:
		err = vm.execNot()
	case bytecode.And:
		err = vm.execBoolOp(true)
	case bytecode.Or:
		err = vm.execBoolOp(false)
	case bytecode.Equal, bytecode.NotEqual, bytecode.GreaterThan, bytecode.LessThan:
		err = vm.execCompare(op)

	case bytecode.Jump:
		off := vm.readU16()
		frame.ip = frame.fn.CodeOffset + off
	case bytecode.JumpIfFalse:
		off := vm.readU16()
		var cond object.Value
		cond, err = vm.pop()
		if err == nil && !cond.Truthy() {
			frame.ip = frame.fn.CodeOffset + off
		}

	case bytecode.Call:
		argc := vm.readU8()
		err = vm.call(argc)

	case bytecode.Return:
		result, err = vm.execReturn()
		unwound = err == nil

	case bytecode.GetGlobal:
		idx := vm.readU16()
		err = vm.execGetGlobal(idx)
	case bytecode.SetGlobal:
		idx := vm.readU16()
		err = vm.execSetGlobal(idx)
	case bytecode.GetLocal:
		slot := vm.readU8()
		err = vm.push(vm.stack[frame.base+slot])
	case bytecode.SetLocal:
		slot := vm.readU8()
		var v object.Value
		if v, err = vm.pop(); err == nil {
			vm.stack[frame.base+slot] = v
		}

	case bytecode.GetUpvalue:
		idx := vm.readU8()
		err = vm.execGetUpvalue(idx)
	case bytecode.SetUpvalue:
		idx := vm.readU8()
		err = vm.execSetUpvalue(idx)

	case bytecode.MakeArray:
		n := vm.readU16()
		err = vm.execMakeArray(n)
	case bytecode.MakeHash:
		n := vm.readU16()
		err = vm.execMakeHash(n)
	case bytecode.Index:
		err = vm.execIndex()
	case bytecode.SetIndex:
		err = vm.execSetIndex()

	case bytecode.MakeClosure:
		idx := vm.readU16()
		err = vm.execMakeClosure(idx)

	case bytecode.DeclareClass:
		idx := vm.readU16()
		err = vm.execDeclareClass(idx)
	case bytecode.DeclareStruct, bytecode.DeclareInterface:
		idx := vm.readU16()
		err = vm.push(vm.chunk.Constants[idx])

	case bytecode.GetProperty:
		idx := vm.readU16()
		err = vm.execGetProperty(idx)
	case bytecode.SetProperty:
		idx := vm.readU16()
		err = vm.execSetProperty(idx)

	case bytecode.New:
		argc := vm.readU8()
		err = vm.execNew(argc)

	case bytecode.This:
		err = vm.execThis()
	case bytecode.Super:
		err = vm.execSuper()

	case bytecode.NoOp:
		// nothing

	case bytecode.MapToAst:
		nodeID := vm.readU32()
		vm.pendingNodeID = nodeID
		vm.haveNodeID = true

	case bytecode.Raise:
		idx := vm.readU16()
		name, _ := object.AsString(vm.chunk.Constants[idx])
		err = vm.newError(ErrorKind(name), "%s", name)

	default:
		err = vm.newError(TypeMismatch, "unknown opcode %d", byte(op))
	}

	return result, unwound, err
}

func (vm *VM) readU8() int {
	n := vm.chunk.ReadU8(vm.frame.ip)
	vm.frame.ip++
	return n
}

func (vm *VM) readU16() int {
	n := vm.chunk.ReadU16(vm.frame.ip)
	vm.frame.ip += 2
	return n
}

func (vm *VM) readU32() int {
	n := vm.chunk.ReadU32(vm.frame.ip)
	vm.frame.ip += 4
	return n
}

// execArith implements spec.md §4.3's integer arithmetic, plus the
// string special cases for Add (concatenation) and Mul (repetition).
func (vm *VM) execArith(op bytecode.Opcode) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}

	if op == bytecode.Add {
		if as, ok := object.AsString(a); ok {
			if bs, ok2 := object.AsString(b); ok2 {
				return vm.push(object.Str(as + bs))
			}
		}
	}
	if op == bytecode.Mul {
		if as, ok := object.AsString(a); ok && b.IsInt() {
			return vm.push(object.Str(repeatString(as, b.AsInt())))
		}
		if bs, ok := object.AsString(b); ok && a.IsInt() {
			return vm.push(object.Str(repeatString(bs, a.AsInt())))
		}
	}

	if !a.IsInt() || !b.IsInt() {
		return vm.newError(TypeMismatch, "cannot apply %s to %s and %s", op, a.TypeName(), b.TypeName())
	}
	x, y := a.AsInt(), b.AsInt()
	switch op {
	case bytecode.Add:
		return vm.push(object.Integer(x + y))
	case bytecode.Sub:
		return vm.push(object.Integer(x - y))
	case bytecode.Mul:
		return vm.push(object.Integer(x * y))
	case bytecode.Div:
		if y == 0 {
			return vm.newError(DivisionByZero, "division by zero")
		}
		return vm.push(object.Integer(x / y))
	case bytecode.Mod:
		if y == 0 {
			return vm.newError(DivisionByZero, "modulo by zero")
		}
		return vm.push(object.Integer(x % y))
	case bytecode.Pow:
		if y < 0 {
			return vm.newError(NegativeExponent, "negative exponent %d", y)
		}
		return vm.push(object.Integer(intPow(x, y)))
	}
	return vm.newError(TypeMismatch, "unreachable arithmetic op")
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

func (vm *VM) execNeg() error {
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if !a.IsInt() {
		return vm.newError(TypeMismatch, "cannot negate %s", a.TypeName())
	}
	return vm.push(object.Integer(-a.AsInt()))
}

func (vm *VM) execNot() error {
	a, err := vm.pop()
	if err != nil {
		return err
	}
	return vm.push(object.Bool(!a.Truthy()))
}

// execBoolOp implements strict (non-short-circuit) And/Or — spec.md §9's
// resolved Open Question, following the reference interpreter.
func (vm *VM) execBoolOp(and bool) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if and {
		return vm.push(object.Bool(a.Truthy() && b.Truthy()))
	}
	return vm.push(object.Bool(a.Truthy() || b.Truthy()))
}

func (vm *VM) execCompare(op bytecode.Opcode) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	switch op {
	case bytecode.Equal:
		return vm.push(object.Bool(object.Equal(a, b)))
	case bytecode.NotEqual:
		return vm.push(object.Bool(!object.Equal(a, b)))
	case bytecode.GreaterThan, bytecode.LessThan:
		if !a.IsInt() || !b.IsInt() {
			return vm.newError(TypeMismatch, "cannot compare %s and %s", a.TypeName(), b.TypeName())
		}
		if op == bytecode.GreaterThan {
			return vm.push(object.Bool(a.AsInt() > b.AsInt()))
		}
		return vm.push(object.Bool(a.AsInt() < b.AsInt()))
	}
	return vm.newError(TypeMismatch, "unreachable comparison op")
}

func (vm *VM) execGetGlobal(idx int) error {
	name, _ := object.AsString(vm.chunk.Constants[idx])
	v, ok := vm.globals[name]
	if !ok {
		return vm.newError(UndefinedGlobal, "undefined global %q", name)
	}
	return vm.push(v)
}

func (vm *VM) execSetGlobal(idx int) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	name, _ := object.AsString(vm.chunk.Constants[idx])
	vm.globals[name] = v
	return nil
}

func (vm *VM) execGetUpvalue(idx int) error {
	if vm.frame.closure == nil || idx >= len(vm.frame.closure.Upvalues) {
		return vm.newError(TypeMismatch, "upvalue access outside closure")
	}
	return vm.push(*vm.frame.closure.Upvalues[idx])
}

func (vm *VM) execSetUpvalue(idx int) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if vm.frame.closure == nil || idx >= len(vm.frame.closure.Upvalues) {
		return vm.newError(TypeMismatch, "upvalue access outside closure")
	}
	*vm.frame.closure.Upvalues[idx] = v
	return nil
}

func (vm *VM) execMakeArray(n int) error {
	if vm.sp < n {
		return vm.newError(StackUnderflow, "array literal of %d elements underflows stack", n)
	}
	elems := make([]object.Value, n)
	copy(elems, vm.stack[vm.sp-n:vm.sp])
	vm.sp -= n
	return vm.push(object.Heap(object.NewArray(elems)))
}

func (vm *VM) execMakeHash(n int) error {
	if vm.sp < 2*n {
		return vm.newError(StackUnderflow, "hash literal of %d pairs underflows stack", n)
	}
	base := vm.sp - 2*n
	h := object.NewHash()
	for i := 0; i < n; i++ {
		k := vm.stack[base+2*i]
		v := vm.stack[base+2*i+1]
		if !h.Set(k, v) {
			return vm.newError(TypeMismatch, "unhashable key of type %s", k.TypeName())
		}
	}
	vm.sp = base
	return vm.push(object.Heap(h))
}

func (vm *VM) execIndex() error {
	i, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if a.Kind != object.KindHeap {
		return vm.newError(TypeMismatch, "cannot index %s", a.TypeName())
	}
	switch coll := a.Obj.(type) {
	case *object.Array:
		if !i.IsInt() {
			return vm.newError(TypeMismatch, "array index must be an integer, got %s", i.TypeName())
		}
		idx := i.AsInt()
		if idx < 0 || idx >= int64(len(coll.Elements)) {
			return vm.newError(IndexOutOfBounds, "index %d out of bounds (len %d)", idx, len(coll.Elements))
		}
		return vm.push(coll.Elements[idx])
	case *object.Hash:
		v, ok := coll.Get(i)
		if !ok {
			return vm.newError(KeyNotFound, "key %s not found", i.Inspect())
		}
		return vm.push(v)
	case *object.String:
		if !i.IsInt() {
			return vm.newError(TypeMismatch, "string index must be an integer, got %s", i.TypeName())
		}
		idx := i.AsInt()
		if idx < 0 || idx >= int64(len(coll.Value)) {
			return vm.newError(IndexOutOfBounds, "index %d out of bounds (len %d)", idx, len(coll.Value))
		}
		return vm.push(object.Str(string(coll.Value[idx])))
	default:
		return vm.newError(TypeMismatch, "cannot index %s", a.TypeName())
	}
}

func (vm *VM) execSetIndex() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	i, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if a.Kind != object.KindHeap {
		return vm.newError(TypeMismatch, "cannot index-assign %s", a.TypeName())
	}
	switch coll := a.Obj.(type) {
	case *object.Array:
		if !i.IsInt() {
			return vm.newError(TypeMismatch, "array index must be an integer, got %s", i.TypeName())
		}
		idx := i.AsInt()
		if idx < 0 || idx >= int64(len(coll.Elements)) {
			return vm.newError(IndexOutOfBounds, "index %d out of bounds (len %d)", idx, len(coll.Elements))
		}
		coll.Elements[idx] = v
		return nil
	case *object.Hash:
		if !coll.Set(i, v) {
			return vm.newError(TypeMismatch, "unhashable key of type %s", i.TypeName())
		}
		return nil
	default:
		return vm.newError(TypeMismatch, "cannot index-assign %s", a.TypeName())
	}
}

// execMakeClosure captures each declared upvalue by value into a fresh
// box — a deliberate simplification from shared-mutable upvalue cells
// (see DESIGN.md's Open Question entry on closures).
func (vm *VM) execMakeClosure(idx int) error {
	if idx >= len(vm.chunk.Functions) {
		return vm.newError(TypeMismatch, "MakeClosure: bad function index %d", idx)
	}
	proto := vm.chunk.Functions[idx]
	ups := make([]*object.Value, len(proto.Upvalues))
	for i, uc := range proto.Upvalues {
		var v object.Value
		if uc.IsLocal {
			v = vm.stack[vm.frame.base+int(uc.Index)]
		} else {
			if vm.frame.closure == nil || int(uc.Index) >= len(vm.frame.closure.Upvalues) {
				return vm.newError(TypeMismatch, "MakeClosure: bad upvalue capture")
			}
			v = *vm.frame.closure.Upvalues[uc.Index]
		}
		boxed := v
		ups[i] = &boxed
	}
	return vm.push(object.Heap(&object.Function{Proto: proto, Upvalues: ups}))
}

// execDeclareClass runs each static property's default thunk once,
// storing the result into the class's StaticSlots, then pushes the
// already-fully-built class (methods and non-static property thunks
// were assembled entirely at compile time — see internal/compiler/classes.go).
func (vm *VM) execDeclareClass(idx int) error {
	cv := vm.chunk.Constants[idx]
	class, ok := cv.Obj.(*object.Class)
	if !ok {
		return vm.newError(TypeMismatch, "DeclareClass: constant %d is not a class", idx)
	}
	for _, p := range class.Properties {
		if !p.IsStatic {
			continue
		}
		v := object.Null
		if p.Default != nil {
			var err error
			v, err = vm.callAndRun(object.Heap(&object.Function{Proto: p.Default}), nil)
			if err != nil {
				return err
			}
		}
		class.StaticSlots[p.Name] = v
	}
	return vm.push(cv)
}

// execGetProperty implements spec.md §4.3's object-op rules across every
// receiver kind that carries named fields or methods, plus the synthetic
// __type_name accessor compiled pattern-matching's StructPattern relies
// on (internal/compiler/patterns.go).
func (vm *VM) execGetProperty(idx int) error {
	name, _ := object.AsString(vm.chunk.Constants[idx])
	recv, err := vm.pop()
	if err != nil {
		return err
	}
	if recv.Kind != object.KindHeap {
		return vm.newError(TypeMismatch, "cannot access property %q on %s", name, recv.TypeName())
	}
	switch r := recv.Obj.(type) {
	case *object.ClassInstance:
		if name == "__type_name" {
			return vm.push(object.Str(r.Class.Name))
		}
		if v, ok := r.GetField(name); ok {
			return vm.push(v)
		}
		if m, ok := r.Class.LookupMethod(name); ok {
			return vm.push(object.Heap(&object.BoundMethod{Method: m, Receiver: r}))
		}
		return vm.newError(UnknownProperty, "unknown property %q on %s", name, r.Class.Name)
	case *object.StructInstance:
		if name == "__type_name" {
			return vm.push(object.Str(r.Struct.Name))
		}
		if v, ok := r.GetField(name); ok {
			return vm.push(v)
		}
		return vm.newError(UnknownProperty, "unknown property %q on %s", name, r.Struct.Name)
	case *superRef:
		m, ok := r.StartClass.LookupMethod(name)
		if !ok {
			return vm.newError(UnknownProperty, "unknown super property %q", name)
		}
		return vm.push(object.Heap(&object.BoundMethod{Method: m, Receiver: r.Receiver}))
	case *object.Class:
		if v, ok := r.StaticSlots[name]; ok {
			return vm.push(v)
		}
		if m, ok := r.LookupMethod(name); ok {
			return vm.push(object.Heap(m))
		}
		return vm.newError(UnknownProperty, "unknown static property %q on %s", name, r.Name)
	case *object.Hash:
		v, ok := r.Get(object.Str(name))
		if !ok {
			return vm.newError(UnknownProperty, "unknown property %q", name)
		}
		return vm.push(v)
	default:
		return vm.newError(TypeMismatch, "cannot access property %q on %s", name, recv.TypeName())
	}
}

// execSetProperty implements spec.md §9's resolved Open Question: class
// and struct instances reject writes to undeclared fields with
// UnknownProperty, while hashes accept dynamic property-style writes.
func (vm *VM) execSetProperty(idx int) error {
	name, _ := object.AsString(vm.chunk.Constants[idx])
	v, err := vm.pop()
	if err != nil {
		return err
	}
	recv, err := vm.pop()
	if err != nil {
		return err
	}
	if recv.Kind != object.KindHeap {
		return vm.newError(TypeMismatch, "cannot set property %q on %s", name, recv.TypeName())
	}
	switch r := recv.Obj.(type) {
	case *object.ClassInstance:
		if !r.SetField(name, v) {
			return vm.newError(UnknownProperty, "unknown property %q on %s", name, r.Class.Name)
		}
		return nil
	case *object.StructInstance:
		if !r.SetField(name, v) {
			return vm.newError(UnknownProperty, "unknown property %q on %s", name, r.Struct.Name)
		}
		return nil
	case *object.Class:
		r.StaticSlots[name] = v
		return nil
	case *object.Hash:
		r.Set(object.Str(name), v)
		return nil
	default:
		return vm.newError(TypeMismatch, "cannot set property %q on %s", name, recv.TypeName())
	}
}

func (vm *VM) execThis() error {
	if vm.frame.receiver == nil {
		return vm.newError(ThisOutsideMethod, "this outside method")
	}
	return vm.push(object.Heap(vm.frame.receiver))
}

func (vm *VM) execSuper() error {
	if vm.frame.receiver == nil || vm.frame.fn.OwnerClass == nil {
		return vm.newError(ThisOutsideMethod, "super outside method")
	}
	parent := vm.frame.fn.OwnerClass.Parent
	if parent == nil {
		return vm.newError(UnknownProperty, "%s has no parent class", vm.frame.fn.OwnerClass.Name)
	}
	return vm.push(object.Heap(&superRef{Receiver: vm.frame.receiver, StartClass: parent}))
}

// execNew implements `new C(args)` (spec.md §4.2/§4.3): build the
// instance with every non-static field initialized from its declared
// thunk (Null when absent), in declaration order across the whole
// inheritance chain, then invoke `init` if the class defines one.
func (vm *VM) execNew(argc int) error {
	if vm.sp < argc {
		return vm.newError(StackUnderflow, "New: %d args underflow stack", argc)
	}
	args := make([]object.Value, argc)
	copy(args, vm.stack[vm.sp-argc:vm.sp])
	vm.sp -= argc

	classVal, err := vm.pop()
	if err != nil {
		return err
	}
	class, ok := classVal.Obj.(*object.Class)
	if !ok {
		return vm.newError(TypeMismatch, "new target %s is not a class", classVal.TypeName())
	}

	props := class.AllProperties()
	fieldNames := make([]string, 0, len(props))
	for _, p := range props {
		if !p.IsStatic {
			fieldNames = append(fieldNames, p.Name)
		}
	}
	initFn, hasInit := class.LookupMethod("init")

	// Arity is checked against the resolved init (or 0 with no init at
	// all) before any property initializer runs, so a bad New call fails
	// atomically instead of partially constructing the instance.
	wantArgs := 0
	if hasInit {
		wantArgs = initFn.Proto.NumParams
	}
	if len(args) != wantArgs {
		return vm.newError(ArityMismatch, "%s.init expects %d arguments, got %d", class.Name, wantArgs, len(args))
	}

	inst := object.NewClassInstance(class, fieldNames)
	for _, p := range props {
		if p.IsStatic || p.Default == nil {
			continue
		}
		v, err := vm.callAndRun(object.Heap(&object.Function{Proto: p.Default}), nil)
		if err != nil {
			return err
		}
		inst.SetField(p.Name, v)
	}

	if hasInit {
		bound := object.Heap(&object.BoundMethod{Method: initFn, Receiver: inst})
		if _, err := vm.callAndRun(bound, args); err != nil {
			return err
		}
	}

	return vm.push(object.Heap(inst))
}

// call dispatches the callee sitting argc slots below the current stack
// top (spec.md §4.3's Call layout: "... callee arg0 .. arg{argc-1}").
// Shared by the Call opcode and callAndRun's programmatic invocations.
func (vm *VM) call(argc int) error {
	calleeIdx := vm.sp - argc - 1
	if calleeIdx < 0 {
		return vm.newError(StackUnderflow, "call requires a callee below %d args", argc)
	}
	callee := vm.stack[calleeIdx]
	args := append([]object.Value(nil), vm.stack[calleeIdx+1:vm.sp]...)

	if callee.Kind != object.KindHeap {
		return vm.newError(TypeMismatch, "cannot call value of type %s", callee.TypeName())
	}
	switch fn := callee.Obj.(type) {
	case *object.Function:
		return vm.pushFunctionFrame(fn, nil, args, calleeIdx)
	case *object.BoundMethod:
		return vm.pushFunctionFrame(fn.Method, fn.Receiver, args, calleeIdx)
	case *object.Builtin:
		res, err := fn.Fn(args)
		if err != nil {
			return vm.newError(TypeMismatch, "%s: %v", fn.Name, err)
		}
		vm.sp = calleeIdx
		return vm.push(res)
	default:
		return vm.newError(TypeMismatch, "cannot call value of type %s", callee.TypeName())
	}
}

// pushFunctionFrame sets up a new call frame for fn, arguments already
// sitting on the stack at calleeIdx+1..calleeIdx+len(args). Extra local
// slots beyond the parameters are pre-allocated and Null-initialized —
// spec.md §3's static, whole-function-lifetime local slot model.
func (vm *VM) pushFunctionFrame(fn *object.Function, receiver *object.ClassInstance, args []object.Value, calleeIdx int) error {
	proto := fn.Proto
	if len(args) != proto.NumParams {
		return vm.newError(ArityMismatch, "%s expects %d arguments, got %d", proto.Name, proto.NumParams, len(args))
	}
	if vm.frameCount >= len(vm.frames) {
		return vm.newError(StackOverflow, "call frames exceeded %d", len(vm.frames))
	}
	base := calleeIdx + 1
	vm.sp = base + proto.NumParams
	for i := proto.NumParams; i < proto.NumLocals; i++ {
		if err := vm.push(object.Null); err != nil {
			return err
		}
	}
	vm.frames[vm.frameCount] = Frame{
		fn:       proto,
		closure:  fn,
		ip:       proto.CodeOffset,
		base:     base,
		receiver: receiver,
	}
	vm.frameCount++
	vm.frame = &vm.frames[vm.frameCount-1]
	return nil
}

// execReturn implements spec.md §4.3's frame teardown: pop the return
// value, reset sp to discard locals and the callee slot, push the
// return value back for the resuming frame. Returning from the script
// frame (which has no callee slot) empties the stack and hands the
// value straight back to Run.
func (vm *VM) execReturn() (object.Value, error) {
	retVal, err := vm.pop()
	if err != nil {
		return object.Null, err
	}
	frame := vm.frame
	calleeIdx := frame.base - 1
	vm.frameCount--
	if vm.frameCount == 0 {
		vm.frame = nil
		vm.sp = 0
		return retVal, nil
	}
	vm.sp = calleeIdx
	vm.frame = &vm.frames[vm.frameCount-1]
	if err := vm.push(retVal); err != nil {
		return object.Null, err
	}
	return retVal, nil
}

// callAndRun issues a synchronous nested call — grounded on the
// teacher's vmCallHandler save/restore/drive-until-target-depth pattern
// — for property-default thunks and `init` invocation during New. The
// value Return leaves on the stack for the (nonexistent) resuming
// bytecode frame is popped back off before returning to Go code.
func (vm *VM) callAndRun(callee object.Value, args []object.Value) (object.Value, error) {
	if err := vm.push(callee); err != nil {
		return object.Null, err
	}
	for _, a := range args {
		if err := vm.push(a); err != nil {
			return object.Null, err
		}
	}
	target := vm.frameCount
	if err := vm.call(len(args)); err != nil {
		return object.Null, err
	}
	result, err := vm.runLoop(target)
	if err != nil {
		return object.Null, err
	}
	if _, err := vm.pop(); err != nil {
		return object.Null, err
	}
	return result, nil
}

func (vm *VM) emitTrace(op bytecode.Opcode) {
	frame := vm.frame
	stack := make([]string, 0, vm.sp)
	for i := 0; i < vm.sp; i++ {
		stack = append(stack, vm.stack[i].Inspect())
	}
	evt := TraceEvent{
		IP:         frame.ip - 1,
		Opcode:     op.String(),
		Stack:      stack,
		FrameIndex: vm.frameCount - 1,
	}
	if vm.haveNodeID {
		evt.NodeID = vm.pendingNodeID
		vm.haveNodeID = false
	}
	vm.Trace(evt)
}
