package vm

import "github.com/sofia-lang/sofia/internal/object"

// Frame is one call activation record (spec.md §3's Frame:
// "{ function, return_ip, base_pointer, receiver }"). return_ip is
// implicit here — it is the ip of the caller's Frame, already sitting on
// vm.frames below this one.
type Frame struct {
	fn       *object.CompiledFunction
	closure  *object.Function // nil unless fn closes over upvalues
	ip       int
	base     int // stack index where this frame's arg0/local0 lives
	receiver *object.ClassInstance
}
