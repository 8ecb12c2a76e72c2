package gen

import (
	"fmt"
	"slices"

	"github.com/go-openapi/inflect"

	"github.com/contentkit/typegen/compiler/load"
)

type (
	// Graph is the resolved form of a snapshot: every entity mapped to its
	// declaration identifier, every attribute mapped to a field with its
	// target links resolved. The emitters are pure functions of the graph.
	Graph struct {
		cfg *Config
		// Nodes holds the content types in snapshot order.
		Nodes []*Type
		// Components holds the component types in snapshot order.
		Components []*Type
		// Warnings collected while building the graph (unknown attribute
		// kinds). Never fatal.
		Warnings []Warning

		byUID map[string]*Type
		names map[string]string   // declaration identifier -> owning uid
		enums map[string][]string // enum identifier -> value set
	}

	// Type is one schema entity: a content type or a component.
	Type struct {
		// Name is the deterministic declaration identifier.
		Name string
		// UID is the schema identifier the name was derived from.
		UID string
		// Singleton marks single types: their access-layer entries never
		// take an identifier parameter.
		Singleton bool
		// Component marks embeddable types, which get no access layer.
		Component bool
		// Singular and Plural are the exported name parts of generated
		// methods (GetArticle, ListArticles).
		Singular string
		Plural   string
		// BasePath is the route prefix of the default operations.
		BasePath string
		// Display is the human-readable name used in doc comments.
		Display string
		// Fields in declared attribute order, private attributes excluded.
		Fields []*Field
	}

	// Field is a single declared member of a type.
	Field struct {
		def *load.Attribute
		// Name is the exported Go identifier, JSON the wire name.
		Name string
		JSON string
		Kind load.Kind
		// Optional fields are emitted as absent-or-value (pointer, omitempty).
		Optional bool
		// Many marks to-many relations, repeatable components and multiple
		// media: emitted as slices.
		Many bool
		// Enums holds the members of an enumeration field; EnumName the
		// generated union type identifier. EnumOwner is set on the field whose
		// occurrence declares the type; later fields with the same name and
		// value set share it.
		Enums     []Enum
		EnumName  string
		EnumOwner bool
		// Target is the resolved relation/component target. TargetName is
		// set even when the target uid is unknown, so a dangling reference
		// surfaces as an unresolved identifier at compile time instead of a
		// panic here.
		Target     *Type
		TargetName string
		// ItemName is the element type of a dynamic zone; Members its
		// permissible variants.
		ItemName string
		Members  []ZoneMember
	}

	// Enum is one member of a generated enumeration type.
	Enum struct {
		Name  string
		Value string
	}

	// ZoneMember is one permissible variant of a dynamic zone, tagged with
	// the uid consumers discriminate on at runtime.
	ZoneMember struct {
		UID  string
		Name string
	}

	// Warning is a non-fatal issue recorded during generation.
	Warning struct {
		Code    string
		Message string
	}
)

// NewGraph resolves a snapshot against a config. It fails with a SchemaError
// when two entities would produce the same declaration identifier.
func NewGraph(c *Config, s *load.Snapshot) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if s == nil {
		return nil, NewSchemaError("", "", "snapshot cannot be nil", nil)
	}
	g := &Graph{
		cfg:   c,
		byUID: make(map[string]*Type),
		names: make(map[string]string),
		enums: make(map[string][]string),
	}
	for _, comp := range s.Components {
		t := &Type{
			Name:      typeName(comp.UID),
			UID:       comp.UID,
			Component: true,
			Display:   displayName(comp.DisplayName, typeName(comp.UID)),
		}
		if err := g.register(t); err != nil {
			return nil, err
		}
		g.Components = append(g.Components, t)
	}
	for _, ct := range s.ContentTypes {
		name := typeName(ct.UID)
		// The fallback keeps the declaration identifier's word boundaries so
		// derived method names and routes stay consistent with it.
		fallback := inflect.Underscore(name)
		singular := pascal(singularName(ct.Singular, fallback))
		plural := pascal(pluralName(ct.Plural, fallback))
		t := &Type{
			Name:      name,
			UID:       ct.UID,
			Singleton: ct.Kind == load.Single,
			Singular:  singular,
			Plural:    plural,
			Display:   displayName(ct.DisplayName, name),
		}
		if t.Singleton {
			t.BasePath = "/api/" + kebab(singularName(ct.Singular, fallback))
		} else {
			t.BasePath = "/api/" + kebab(pluralName(ct.Plural, fallback))
		}
		if err := g.register(t); err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, t)
	}
	// Field resolution runs after all types are registered so relation and
	// component targets can link across the whole snapshot.
	for i, comp := range s.Components {
		if err := g.resolveFields(g.Components[i], comp.Attributes); err != nil {
			return nil, err
		}
	}
	for i, ct := range s.ContentTypes {
		if err := g.resolveFields(g.Nodes[i], ct.Attributes); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// register claims a declaration identifier for a type.
func (g *Graph) register(t *Type) error {
	if err := g.claim(t.Name, t.UID); err != nil {
		return err
	}
	g.byUID[t.UID] = t
	return nil
}

// claim records a generated identifier and fails on collision.
func (g *Graph) claim(name, uid string) error {
	if prev, ok := g.names[name]; ok {
		return NewSchemaError(uid, "", fmt.Sprintf("declaration name %q collides with %s", name, prev), nil)
	}
	g.names[name] = uid
	return nil
}

func (g *Graph) resolveFields(t *Type, attrs []*load.Attribute) error {
	for _, a := range attrs {
		if a.Private {
			continue
		}
		f := &Field{
			def:      a,
			Name:     pascal(a.Name),
			JSON:     a.Name,
			Kind:     a.Kind,
			Optional: !a.Required,
		}
		switch a.Kind {
		case load.KindEnumeration:
			f.EnumName = t.Name + pascal(a.Name)
			if vals, ok := g.enums[f.EnumName]; ok {
				// An identical union is shared; the same name over a
				// different value set is a fatal ambiguity.
				if !slices.Equal(vals, a.Enum) {
					return NewSchemaError(t.UID, a.Name,
						fmt.Sprintf("enumeration %q already declared with different values", f.EnumName), nil)
				}
			} else {
				if err := g.claim(f.EnumName, t.UID); err != nil {
					return err
				}
				g.enums[f.EnumName] = a.Enum
				f.EnumOwner = true
			}
			for _, v := range a.Enum {
				f.Enums = append(f.Enums, Enum{Name: f.EnumName + pascal(v), Value: v})
			}
		case load.KindRelation:
			f.Target = g.byUID[a.Target]
			f.TargetName = typeName(a.Target)
			f.Many = a.ToMany()
		case load.KindComponent:
			f.Target = g.byUID[a.Target]
			f.TargetName = typeName(a.Target)
			f.Many = a.Repeatable
		case load.KindDynamicZone:
			f.ItemName = t.Name + pascal(a.Name) + "Item"
			if err := g.claim(f.ItemName, t.UID); err != nil {
				return err
			}
			for _, uid := range a.Targets {
				f.Members = append(f.Members, ZoneMember{UID: uid, Name: typeName(uid)})
			}
		case load.KindMedia:
			f.Many = a.Multiple
		default:
			if !a.Kind.Known() {
				g.Warnings = append(g.Warnings, Warning{
					Code:    "unknown-kind",
					Message: fmt.Sprintf("%s.%s: unknown attribute kind %q, emitting raw JSON passthrough", t.UID, a.Name, a.Kind),
				})
			}
		}
		t.Fields = append(t.Fields, f)
	}
	return nil
}
