package resolver

import (
	"errors"
	"fmt"

	"github.com/pitabwire/addins/localizer"
)

// Kind classifies a resolution failure.
type Kind int

const (
	// TypeNotFound means a deferred type name is not registered.
	TypeNotFound Kind = iota + 1
	// SharedReferenceNotFound means nothing was published under the shared id.
	SharedReferenceNotFound
	// IncompatibleType means the factory type does not implement Factory.
	IncompatibleType
	// FactoryFailed means the factory returned an error while creating the localizer.
	FactoryFailed
)

func (k Kind) String() string {
	switch k {
	case TypeNotFound:
		return "type not found"
	case SharedReferenceNotFound:
		return "shared reference not found"
	case IncompatibleType:
		return "incompatible type"
	case FactoryFailed:
		return "factory failed"
	default:
		return "unknown"
	}
}

var (
	ErrTypeNotFound            = errors.New("localizer type not found")
	ErrSharedReferenceNotFound = errors.New("shared localizer not found")
	ErrIncompatibleType        = errors.New("type does not implement the localizer factory interface")
	ErrFactoryFailed           = errors.New("localizer factory failed")
	ErrNoLocalizer             = errors.New("package declares no localizer and no fallback is configured")
)

// ResolutionError reports why a package's localizer reference could not be resolved.
type ResolutionError struct {
	Kind      Kind
	PackageID string
	Reference localizer.Reference
	Err       error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve localizer for package %q (%s): %s: %v", e.PackageID, e.Reference, e.Kind, e.Err)
	}
	return fmt.Sprintf("resolve localizer for package %q (%s): %s", e.PackageID, e.Reference, e.Kind)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a ResolutionError against the sentinel of its kind.
func (e *ResolutionError) Is(target error) bool {
	switch e.Kind {
	case TypeNotFound:
		return target == ErrTypeNotFound
	case SharedReferenceNotFound:
		return target == ErrSharedReferenceNotFound
	case IncompatibleType:
		return target == ErrIncompatibleType
	case FactoryFailed:
		return target == ErrFactoryFailed
	default:
		return false
	}
}
