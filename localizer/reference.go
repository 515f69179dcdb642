package localizer

import (
	"fmt"
	"reflect"
)

// Mode reports which attribute currently identifies the localizer.
type Mode int

const (
	// ModeUnset means no localizer has been declared.
	ModeUnset Mode = iota
	// ModeType means the localizer is identified by a factory type, either
	// resolved in process or deferred by name.
	ModeType
	// ModeShared means the localizer is one previously published under a registration id.
	ModeShared
)

func (m Mode) String() string {
	switch m {
	case ModeType:
		return "type"
	case ModeShared:
		return "shared"
	default:
		return "unset"
	}
}

// identity is the exactly-one-of part of a Reference. typ may be nil while
// typeName is set when the factory type has not been loaded yet.
type identity struct {
	mode     Mode
	typ      reflect.Type
	typeName string
	sharedID string
}

// Reference declares which localizer a package wants for its user facing strings.
//
// A reference carries at most one identity: a factory type (with its derived
// name), a deferred type name, or the id of a shared localizer. Setting one
// clears the others. The registration id is independent of the identity and
// names where the resolved localizer is published for reuse.
//
// A Reference is a plain value without locking; the owning package record
// synchronizes mutation.
type Reference struct {
	id identity

	registrationID    string
	hasRegistrationID bool
}

// New returns an empty reference.
func New() Reference {
	return Reference{}
}

// NewFromID returns a reference to the shared localizer published as id.
func NewFromID(id string) Reference {
	var r Reference
	r.SetSharedID(id)
	return r
}

// NewFromType returns a reference to the localizer factory type t.
func NewFromType(t reflect.Type) Reference {
	var r Reference
	r.SetType(t)
	return r
}

// NewFromTypeWithRegistration returns a reference to factory type t whose
// localizer is published as registerID.
func NewFromTypeWithRegistration(t reflect.Type, registerID string) Reference {
	r := NewFromType(t)
	r.SetRegistrationID(registerID)
	return r
}

// For is NewFromType for a factory type known at compile time.
func For[T any]() Reference {
	return NewFromType(reflect.TypeFor[T]())
}

// Mode reports the active identity.
func (r Reference) Mode() Mode {
	return r.id.mode
}

// Type returns the resolved factory type.
func (r Reference) Type() (reflect.Type, bool) {
	if r.id.mode != ModeType || r.id.typ == nil {
		return nil, false
	}
	return r.id.typ, true
}

// TypeName returns the fully qualified factory type name, resolved or deferred.
func (r Reference) TypeName() (string, bool) {
	if r.id.mode != ModeType {
		return "", false
	}
	return r.id.typeName, true
}

// SharedID returns the id of the shared localizer this reference points at.
func (r Reference) SharedID() (string, bool) {
	if r.id.mode != ModeShared {
		return "", false
	}
	return r.id.sharedID, true
}

// RegistrationID returns the id the resolved localizer is published under.
func (r Reference) RegistrationID() (string, bool) {
	return r.registrationID, r.hasRegistrationID
}

// SetType identifies the localizer by factory type t and derives its name.
// A nil t leaves the reference unset.
func (r *Reference) SetType(t reflect.Type) {
	if t == nil {
		r.id = identity{}
		return
	}
	r.id = identity{mode: ModeType, typ: t, typeName: TypeName(t)}
}

// SetTypeName identifies the localizer by a factory type that is not loaded.
// It is used when a package is inspected from its manifest without loading code.
func (r *Reference) SetTypeName(name string) {
	r.id = identity{mode: ModeType, typeName: name}
}

// SetSharedID identifies the localizer by the id it was published under.
func (r *Reference) SetSharedID(id string) {
	r.id = identity{mode: ModeShared, sharedID: id}
}

// SetRegistrationID sets the id the resolved localizer is published under.
func (r *Reference) SetRegistrationID(id string) {
	r.registrationID = id
	r.hasRegistrationID = true
}

// ClearRegistrationID stops the resolved localizer from being published.
func (r *Reference) ClearRegistrationID() {
	r.registrationID = ""
	r.hasRegistrationID = false
}

func (r Reference) String() string {
	var s string
	switch r.id.mode {
	case ModeType:
		s = "type:" + r.id.typeName
		if r.id.typ == nil {
			s += " (deferred)"
		}
	case ModeShared:
		s = "shared:" + r.id.sharedID
	default:
		s = "unset"
	}
	if r.hasRegistrationID {
		s = fmt.Sprintf("%s register:%s", s, r.registrationID)
	}
	return s
}

// TypeName returns the fully qualified name of t as used by deferred references.
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer && t.Name() == "" && t.Elem().Name() != "" {
		return "*" + TypeName(t.Elem())
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
