package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/lmittmann/tint"
	"github.com/pitabwire/util"

	"github.com/pitabwire/addins/localizer"
	"github.com/pitabwire/addins/manifest"
)

// Localizer translates a package's message ids into user facing text.
type Localizer interface {
	Translate(ctx context.Context, request any, messageID string) string
	TranslateWithMap(ctx context.Context, request any, messageID string, variables map[string]any) string
	TranslateWithMapAndCount(
		ctx context.Context,
		request any,
		messageID string,
		variables map[string]any,
		count int,
	) string
}

// Factory creates the localizer of a package. Types named by a localizer
// reference must implement it, either on the value or on the pointer.
type Factory interface {
	CreateLocalizer(ctx context.Context, pkg *manifest.Package) (Localizer, error)
}

// tintAttrCodeKind is the ANSI color used for the failure kind in terminal output.
const tintAttrCodeKind = 9

var factoryType = reflect.TypeFor[Factory]()

// Option configures a Resolver.
type Option func(r *Resolver)

// WithRegistry sets the registry used to resolve deferred type names.
func WithRegistry(registry *Registry) Option {
	return func(r *Resolver) {
		r.registry = registry
	}
}

// WithFallback sets the localizer handed to packages that declare none.
func WithFallback(loc Localizer) Option {
	return func(r *Resolver) {
		r.fallback = loc
	}
}

// Resolver turns package localizer references into localizers and keeps
// the localizers published for reuse through shared ids.
type Resolver struct {
	registry *Registry
	fallback Localizer

	mu     sync.RWMutex
	shared map[string]Localizer
}

// New creates a resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{shared: map[string]Localizer{}}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = NewRegistry()
	}
	return r
}

// Registry returns the type registry backing deferred references.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Publish makes loc available to references with shared id id.
func (r *Resolver) Publish(ctx context.Context, id string, loc Localizer) {
	r.mu.Lock()
	_, replaced := r.shared[id]
	r.shared[id] = loc
	r.mu.Unlock()

	if replaced {
		util.Log(ctx).WithField("registration_id", id).Warn("replacing previously published localizer")
	}
}

// Shared returns the localizer published under id.
func (r *Resolver) Shared(id string) (Localizer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.shared[id]
	return loc, ok
}

// Resolve produces the localizer declared by pkg. A localizer created from a
// factory type is published under the reference's registration id, if any.
func (r *Resolver) Resolve(ctx context.Context, pkg *manifest.Package) (Localizer, error) {
	ref := pkg.Localizer()
	log := util.Log(ctx).WithField("package", pkg.ID).WithField("localizer", ref.String())

	loc, err := r.resolve(ctx, pkg, ref, log)
	if err != nil {
		var resErr *ResolutionError
		if errors.As(err, &resErr) {
			log.WithError(err).Warn("localizer resolution failed",
				tint.Attr(tintAttrCodeKind, slog.String("kind", resErr.Kind.String())))
		}
		return nil, err
	}
	return loc, nil
}

func (r *Resolver) resolve(
	ctx context.Context,
	pkg *manifest.Package,
	ref localizer.Reference,
	log *util.LogEntry,
) (Localizer, error) {
	switch ref.Mode() {
	case localizer.ModeShared:
		id, _ := ref.SharedID()
		loc, ok := r.Shared(id)
		if !ok {
			return nil, &ResolutionError{Kind: SharedReferenceNotFound, PackageID: pkg.ID, Reference: ref}
		}
		log.Debug("using shared localizer")
		return loc, nil

	case localizer.ModeType:
		loc, err := r.create(ctx, pkg, ref)
		if err != nil {
			return nil, err
		}
		if reg, ok := ref.RegistrationID(); ok {
			r.Publish(ctx, reg, loc)
			log.WithField("registration_id", reg).Debug("published localizer")
		}
		return loc, nil

	default:
		if r.fallback == nil {
			return nil, fmt.Errorf("package %q: %w", pkg.ID, ErrNoLocalizer)
		}
		log.Debug("using fallback localizer")
		return r.fallback, nil
	}
}

func (r *Resolver) create(ctx context.Context, pkg *manifest.Package, ref localizer.Reference) (Localizer, error) {
	t, ok := ref.Type()
	if !ok {
		name, _ := ref.TypeName()
		t, ok = r.registry.LookupType(name)
		if !ok {
			return nil, &ResolutionError{Kind: TypeNotFound, PackageID: pkg.ID, Reference: ref}
		}
	}

	factory, ok := instantiate(t)
	if !ok {
		return nil, &ResolutionError{
			Kind:      IncompatibleType,
			PackageID: pkg.ID,
			Reference: ref,
			Err:       fmt.Errorf("%s does not implement %s", t, factoryType),
		}
	}

	loc, err := factory.CreateLocalizer(ctx, pkg)
	if err != nil {
		return nil, &ResolutionError{Kind: FactoryFailed, PackageID: pkg.ID, Reference: ref, Err: err}
	}
	return loc, nil
}

// instantiate creates a zero factory of type t. For a non pointer t the
// pointer receiver method set is accepted as well.
func instantiate(t reflect.Type) (Factory, bool) {
	switch {
	case t.Kind() == reflect.Interface:
		return nil, false
	case t.Kind() == reflect.Pointer:
		if !t.Implements(factoryType) {
			return nil, false
		}
		f, ok := reflect.New(t.Elem()).Interface().(Factory)
		return f, ok
	case t.Implements(factoryType):
		f, ok := reflect.New(t).Elem().Interface().(Factory)
		return f, ok
	case reflect.PointerTo(t).Implements(factoryType):
		f, ok := reflect.New(t).Interface().(Factory)
		return f, ok
	default:
		return nil, false
	}
}
