package vm

import (
	"errors"
)

// ThrownError wraps a JS-level exception value in a Go error so native
// code can return it up through ordinary error plumbing and hand it back
// to the runtime unchanged.
type ThrownError struct {
	Exception Value
}

func (e ThrownError) Error() string {
	ex := e.Exception
	if holder := PropertyHolder(ex); holder != nil {
		name, _ := holder.GetOwn("name")
		msg, _ := holder.GetOwn("message")
		if name.IsString() {
			if msg.IsString() && msg.AsString() != "" {
				return name.AsString() + ": " + msg.AsString()
			}
			return name.AsString()
		}
	}
	return "Uncaught " + ex.Inspect()
}

// Thrown extracts the JS exception value from an error produced by this
// runtime, if there is one.
func Thrown(err error) (Value, bool) {
	var te ThrownError
	if errors.As(err, &te) {
		return te.Exception, true
	}
	return Undefined, false
}

// IsTypeError reports whether err carries a JS exception whose name is
// TypeError.
func IsTypeError(err error) bool {
	ex, ok := Thrown(err)
	if !ok {
		return false
	}
	holder := PropertyHolder(ex)
	if holder == nil {
		return false
	}
	name, _ := holder.GetOwn("name")
	return name.IsString() && name.AsString() == "TypeError"
}

// NewTypeError constructs a TypeError exception error for builtin helpers to return
func (r *Realm) NewTypeError(message string) error {
	return r.newNamedError("TypeError", message)
}

// NewRangeError constructs a RangeError exception error for builtin helpers to return
func (r *Realm) NewRangeError(message string) error {
	return r.newNamedError("RangeError", message)
}

// NewSyntaxError constructs a SyntaxError exception error for builtin helpers to return
func (r *Realm) NewSyntaxError(message string) error {
	return r.newNamedError("SyntaxError", message)
}

func (r *Realm) newNamedError(name, message string) error {
	if r.initialized {
		if ctor, ok := r.GetGlobal(name); ok && ctor.IsCallable() {
			errObj, err := r.Call(ctor, Undefined, []Value{NewString(message)})
			if err == nil {
				return ThrownError{Exception: errObj}
			}
		}
	}
	// Fallback generic error object for realms still bootstrapping
	obj := NewObject(Null).AsPlainObject()
	obj.SetOwn("name", NewString(name))
	obj.SetOwn("message", NewString(message))
	return ThrownError{Exception: NewValueFromPlainObject(obj)}
}
