package object

import (
	"strconv"
)

const (
	UNINITIALIZED_OBJ = "UNINITIALIZED"
	VOID_OBJ          = "VOID"
	INTEGER_OBJ       = "INTEGER"
	STRING_OBJ        = "STRING"
	POINTER_OBJ       = "POINTER"
)

var (
	BINDING_UNINITIALIZED = &Uninitialized{}
	VOID                  = &Void{}
)

type ObjectType string

// Object is a runtime value. Objects are never mutated after construction;
// assignment swaps the object held by a binding instead.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Uninitialized is the value of a declared but never assigned variable.
type Uninitialized struct{}

func (u *Uninitialized) Type() ObjectType { return UNINITIALIZED_OBJ }
func (u *Uninitialized) Inspect() string  { return "uninitialized" }

// Void is the result of a statement without a usable value.
type Void struct{}

func (v *Void) Type() ObjectType { return VOID_OBJ }
func (v *Void) Inspect() string  { return "void" }

type Integer struct {
	Value int32
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(int64(i.Value), 10) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return strconv.Quote(s.Value) }

// Pointer holds the value its operand had when the address was taken.
// It does not follow later assignments to the variable.
type Pointer struct {
	Target Object
}

func (p *Pointer) Type() ObjectType { return POINTER_OBJ }
func (p *Pointer) Inspect() string  { return "&" + p.Target.Inspect() }

func NewInteger(v int32) *Integer { return &Integer{Value: v} }

func NewString(v string) *String { return &String{Value: v} }

// IsEmpty reports whether obj carries no usable value.
func IsEmpty(obj Object) bool {
	switch obj.(type) {
	case *Uninitialized, *Void:
		return true
	}
	return obj == nil
}

// Equal compares two objects structurally. Objects of different types are never equal.
func Equal(a, b Object) bool {
	switch a := a.(type) {
	case *Integer:
		b, ok := b.(*Integer)
		return ok && a.Value == b.Value
	case *String:
		b, ok := b.(*String)
		return ok && a.Value == b.Value
	case *Pointer:
		b, ok := b.(*Pointer)
		return ok && Equal(a.Target, b.Target)
	case *Void:
		_, ok := b.(*Void)
		return ok
	case *Uninitialized:
		_, ok := b.(*Uninitialized)
		return ok
	}
	return false
}

// Compare orders two integers. The second result is false for any other pair,
// since only integers are ordered.
func Compare(a, b Object) (int, bool) {
	x, ok := a.(*Integer)
	if !ok {
		return 0, false
	}
	y, ok := b.(*Integer)
	if !ok {
		return 0, false
	}
	switch {
	case x.Value < y.Value:
		return -1, true
	case x.Value > y.Value:
		return 1, true
	}
	return 0, true
}

func nativeBool(b bool) *Integer {
	if b {
		return &Integer{Value: 1}
	}
	return &Integer{Value: 0}
}
