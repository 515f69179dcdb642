package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pitabwire/addins/localizer"
)

// Format is the encoding of a manifest file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var (
	ErrUnknownFormat       = errors.New("unknown manifest format")
	ErrMissingPackageID    = errors.New("manifest does not declare a package id")
	ErrConflictingIdentity = errors.New("localizer declares both a type and a shared id")
)

// FormatFromPath picks the manifest format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Package is the metadata record of a package. It owns the package's
// localizer reference and serializes access to it.
type Package struct {
	ID         string
	Version    string
	Dir        string
	Properties map[string]string

	mu        sync.Mutex
	localizer localizer.Reference
}

// New creates a package record with an empty localizer reference.
func New(id, version string) *Package {
	return &Package{ID: id, Version: version, Properties: map[string]string{}}
}

// Declare replaces the package's localizer reference.
func (p *Package) Declare(ref localizer.Reference) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.localizer = ref
}

// Localizer returns a snapshot of the package's localizer reference.
func (p *Package) Localizer() localizer.Reference {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.localizer
}

// UpdateLocalizer mutates the localizer reference while holding the record lock.
func (p *Package) UpdateLocalizer(fn func(ref *localizer.Reference)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.localizer)
}

// Property returns a localizer construction property.
func (p *Package) Property(key string) string {
	if p.Properties == nil {
		return ""
	}
	return p.Properties[key]
}

// document is the on-disk shape of a manifest.
type document struct {
	ID        string               `toml:"id"                  yaml:"id"`
	Version   string               `toml:"version,omitempty"   yaml:"version,omitempty"`
	Localizer *localizerDeclaration `toml:"localizer,omitempty" yaml:"localizer,omitempty"`
}

type localizerDeclaration struct {
	Type       string            `toml:"type,omitempty"        yaml:"type,omitempty"`
	ID         string            `toml:"id,omitempty"          yaml:"id,omitempty"`
	RegisterID string            `toml:"register_id,omitempty" yaml:"register_id,omitempty"`
	Properties map[string]string `toml:"properties,omitempty"  yaml:"properties,omitempty"`
}

// Load reads the manifest at path. The package directory is the manifest's directory.
func Load(path string) (*Package, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	pkg, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	pkg.Dir = filepath.Dir(path)
	return pkg, nil
}

// Decode parses a manifest without loading any code: a declared localizer
// type is kept as a deferred type name.
func Decode(r io.Reader, format Format) (*Package, error) {
	var doc document
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode toml manifest: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if doc.ID == "" {
		return nil, ErrMissingPackageID
	}

	pkg := New(doc.ID, doc.Version)
	if doc.Localizer == nil {
		return pkg, nil
	}

	decl := doc.Localizer
	if decl.Type != "" && decl.ID != "" {
		return nil, fmt.Errorf("package %s: %w", doc.ID, ErrConflictingIdentity)
	}

	ref := localizer.New()
	switch {
	case decl.Type != "":
		ref.SetTypeName(decl.Type)
	case decl.ID != "":
		ref.SetSharedID(decl.ID)
	}
	if decl.RegisterID != "" {
		ref.SetRegistrationID(decl.RegisterID)
	}
	pkg.Declare(ref)

	for k, v := range decl.Properties {
		pkg.Properties[k] = v
	}
	return pkg, nil
}

// Encode writes the package record using the current state of its localizer reference.
func (p *Package) Encode(w io.Writer, format Format) error {
	doc := document{ID: p.ID, Version: p.Version}

	ref := p.Localizer()
	decl := &localizerDeclaration{}
	if name, ok := ref.TypeName(); ok {
		decl.Type = name
	}
	if id, ok := ref.SharedID(); ok {
		decl.ID = id
	}
	if reg, ok := ref.RegistrationID(); ok {
		decl.RegisterID = reg
	}
	if len(p.Properties) > 0 {
		decl.Properties = p.Properties
	}
	if ref.Mode() != localizer.ModeUnset || decl.RegisterID != "" || decl.Properties != nil {
		doc.Localizer = decl
	}

	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
