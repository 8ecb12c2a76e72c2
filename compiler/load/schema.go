// Package load defines the content-model snapshot consumed by the code
// generator, and decodes snapshots from JSON or YAML files.
package load

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the attribute kind of a content-model field.
// The set is closed: anything not listed here is treated as an opaque
// passthrough value by the generator.
type Kind string

// Attribute kinds.
const (
	KindString      Kind = "string"
	KindText        Kind = "text"
	KindRichText    Kind = "richtext"
	KindEmail       Kind = "email"
	KindUID         Kind = "uid"
	KindInteger     Kind = "integer"
	KindBigInteger  Kind = "biginteger"
	KindFloat       Kind = "float"
	KindDecimal     Kind = "decimal"
	KindBoolean     Kind = "boolean"
	KindDate        Kind = "date"
	KindDateTime    Kind = "datetime"
	KindTime        Kind = "time"
	KindJSON        Kind = "json"
	KindEnumeration Kind = "enumeration"
	KindRelation    Kind = "relation"
	KindComponent   Kind = "component"
	KindDynamicZone Kind = "dynamiczone"
	KindMedia       Kind = "media"
)

// known is the set of kinds the generator maps to a concrete static type.
var known = map[Kind]bool{
	KindString: true, KindText: true, KindRichText: true, KindEmail: true,
	KindUID: true, KindInteger: true, KindBigInteger: true, KindFloat: true,
	KindDecimal: true, KindBoolean: true, KindDate: true, KindDateTime: true,
	KindTime: true, KindJSON: true, KindEnumeration: true, KindRelation: true,
	KindComponent: true, KindDynamicZone: true, KindMedia: true,
}

// Known reports whether the kind maps to a concrete static type.
func (k Kind) Known() bool { return known[k] }

// ContentKind distinguishes collection types (many documents) from single
// types (at most one document).
type ContentKind string

// Content-type kinds.
const (
	Collection ContentKind = "collectionType"
	Single     ContentKind = "singleType"
)

// Snapshot is one immutable, fully-resolved description of all content and
// component types at a point in time. A generation run consumes exactly one
// snapshot; the generator never mutates it.
type Snapshot struct {
	ContentTypes []*ContentType `json:"contentTypes" yaml:"contentTypes"`
	Components   []*Component   `json:"components,omitempty" yaml:"components,omitempty"`
}

// ContentType is a top-level schema entity directly queryable by the
// generated access layer.
type ContentType struct {
	UID         string       `json:"uid" yaml:"uid"`
	Kind        ContentKind  `json:"kind" yaml:"kind"`
	DisplayName string       `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Singular    string       `json:"singularName,omitempty" yaml:"singularName,omitempty"`
	Plural      string       `json:"pluralName,omitempty" yaml:"pluralName,omitempty"`
	Attributes  []*Attribute `json:"attributes" yaml:"attributes"`
}

// Component is a reusable field group referenced by content types (or other
// components), never directly queried.
type Component struct {
	UID         string       `json:"uid" yaml:"uid"`
	DisplayName string       `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Attributes  []*Attribute `json:"attributes" yaml:"attributes"`
}

// Attribute is a single field of a content type or component. Attributes are
// a slice rather than a map so the declared order survives decoding; the
// generator emits members in this order.
type Attribute struct {
	Name     string `json:"name" yaml:"name"`
	Kind     Kind   `json:"type" yaml:"type"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	// Private attributes are excluded from all generated output.
	Private bool `json:"private,omitempty" yaml:"private,omitempty"`
	// Enum holds the permitted values for enumeration attributes.
	Enum []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	// Target is the UID of the related content type (relation) or component
	// (component attributes).
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	// Targets holds the permissible component UIDs of a dynamic zone.
	Targets []string `json:"components,omitempty" yaml:"components,omitempty"`
	// Relation is the relation arity: oneToOne, oneToMany, manyToOne, manyToMany.
	Relation string `json:"relation,omitempty" yaml:"relation,omitempty"`
	// Repeatable marks a component attribute as a list of component values.
	Repeatable bool `json:"repeatable,omitempty" yaml:"repeatable,omitempty"`
	// Multiple marks a media attribute as a list of media descriptors.
	Multiple bool `json:"multiple,omitempty" yaml:"multiple,omitempty"`
}

// ToMany reports whether a relation attribute points at many documents.
func (a *Attribute) ToMany() bool {
	return strings.HasSuffix(a.Relation, "ToMany")
}

// Operation describes a non-default access-layer entry supplied by the
// schema author, and its optional explicit types.
type Operation struct {
	Method     string          `json:"method" yaml:"method"`
	Path       string          `json:"path" yaml:"path"`
	Handler    string          `json:"handler,omitempty" yaml:"handler,omitempty"`
	Controller string          `json:"controller" yaml:"controller"`
	Action     string          `json:"action" yaml:"action"`
	Types      *OperationTypes `json:"types,omitempty" yaml:"types,omitempty"`
}

// OperationTypes holds explicit type references for an operation. Each value
// is emitted verbatim into the generated access layer; the generator does not
// re-derive them.
type OperationTypes struct {
	Body     string `json:"body,omitempty" yaml:"body,omitempty"`
	Response string `json:"response,omitempty" yaml:"response,omitempty"`
	Params   string `json:"params,omitempty" yaml:"params,omitempty"`
	Query    string `json:"query,omitempty" yaml:"query,omitempty"`
}

// ExtraType is a standalone type declaration supplied alongside operations,
// e.g. an event or message shape not tied to any single access function.
// Definition is raw type-definition text appended to the access-layer file.
type ExtraType struct {
	Controller string `json:"controller,omitempty" yaml:"controller,omitempty"`
	Name       string `json:"name" yaml:"name"`
	Definition string `json:"definition" yaml:"definition"`
}

// Descriptors bundles the operation and extra-type inputs the CLI reads from
// a descriptors file.
type Descriptors struct {
	Operations []Operation `json:"operations,omitempty" yaml:"operations,omitempty"`
	ExtraTypes []ExtraType `json:"extraTypes,omitempty" yaml:"extraTypes,omitempty"`
}

// DecodeFile reads a snapshot from a JSON (.json) or YAML (.yaml, .yml) file
// and validates it.
func DecodeFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, filepath.Ext(path))
}

// Decode reads a snapshot in the format implied by ext (".json", ".yaml" or
// ".yml") and validates it.
func Decode(r io.Reader, ext string) (*Snapshot, error) {
	s := &Snapshot{}
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.NewDecoder(r).Decode(s); err != nil {
			return nil, fmt.Errorf("load: decode snapshot: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(s); err != nil {
			return nil, fmt.Errorf("load: decode snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("load: unsupported snapshot format %q", ext)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeDescriptorsFile reads an operations/extra-types file (JSON or YAML).
func DecodeDescriptorsFile(path string) (*Descriptors, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := &Descriptors{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, d)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, d)
	default:
		return nil, fmt.Errorf("load: unsupported descriptors format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("load: decode descriptors: %w", err)
	}
	return d, nil
}

// Validate checks snapshot-level invariants: UIDs are unique within their
// namespace and attribute names are unique per owner. Referential integrity
// of relation targets is a caller concern; dangling targets surface later as
// unresolved identifiers during compilation.
func (s *Snapshot) Validate() error {
	types := make(map[string]bool, len(s.ContentTypes))
	for _, ct := range s.ContentTypes {
		if ct.UID == "" {
			return fmt.Errorf("load: content type with empty uid")
		}
		if types[ct.UID] {
			return fmt.Errorf("load: duplicate content type uid %q", ct.UID)
		}
		types[ct.UID] = true
		if err := validateAttributes(ct.UID, ct.Attributes); err != nil {
			return err
		}
	}
	comps := make(map[string]bool, len(s.Components))
	for _, c := range s.Components {
		if c.UID == "" {
			return fmt.Errorf("load: component with empty uid")
		}
		if comps[c.UID] {
			return fmt.Errorf("load: duplicate component uid %q", c.UID)
		}
		comps[c.UID] = true
		if err := validateAttributes(c.UID, c.Attributes); err != nil {
			return err
		}
	}
	return nil
}

func validateAttributes(owner string, attrs []*Attribute) error {
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if a.Name == "" {
			return fmt.Errorf("load: %s: attribute with empty name", owner)
		}
		if seen[a.Name] {
			return fmt.Errorf("load: %s: duplicate attribute %q", owner, a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}
