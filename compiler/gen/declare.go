package gen

import (
	"bytes"

	"github.com/dave/jennifer/jen"

	"github.com/contentkit/typegen/compiler/load"
)

// emitSchema generates the declarations package: one struct per component and
// content type, enumeration types, dynamic-zone element unions and the fixed
// media descriptor. Members follow the declared attribute order, so the
// output is byte-identical across runs for an unchanged snapshot.
func emitSchema(g *Graph) ([]byte, error) {
	f := jen.NewFilePathName(g.cfg.schemaPkg(), "schema")
	f.HeaderComment(g.cfg.Header)
	f.PackageComment("Package schema holds the generated content-model declarations.")

	emitMedia(f)
	for _, t := range g.Components {
		emitType(f, t)
	}
	for _, t := range g.Nodes {
		emitType(f, t)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewEmitError(g.cfg.schemaFile(), "render declarations", err)
	}
	return buf.Bytes(), nil
}

// emitMedia generates the media descriptor. Its shape is fixed, not
// schema-driven, and the entry package re-exports it, so it is always present.
func emitMedia(f *jen.File) {
	f.Comment("Media describes an uploaded asset referenced by a media attribute.")
	f.Type().Id("Media").StructFunc(func(s *jen.Group) {
		s.Id("ID").String().Tag(map[string]string{"json": "id"})
		s.Id("URL").String().Tag(map[string]string{"json": "url"})
		s.Id("Mime").String().Tag(map[string]string{"json": "mime"})
		s.Id("Size").Float64().Tag(map[string]string{"json": "size"})
	})
}

func emitType(f *jen.File, t *Type) {
	switch {
	case t.Component:
		f.Commentf("%s is the generated declaration of the %s component (%s).", t.Name, t.Display, t.UID)
	case t.Singleton:
		f.Commentf("%s is the generated declaration of the %s single type (%s).", t.Name, t.Display, t.UID)
	default:
		f.Commentf("%s is the generated declaration of the %s collection type (%s).", t.Name, t.Display, t.UID)
	}
	f.Type().Id(t.Name).StructFunc(func(s *jen.Group) {
		if !t.Component {
			s.Id("ID").String().Tag(map[string]string{"json": "id"})
		}
		for _, fl := range t.Fields {
			s.Id(fl.Name).Add(fieldType(fl)).Tag(fieldTag(fl))
		}
	})
	for _, fl := range t.Fields {
		switch {
		case fl.Kind == load.KindEnumeration && fl.EnumOwner:
			emitEnum(f, t, fl)
		case fl.Kind == load.KindDynamicZone:
			emitZoneItem(f, t, fl)
		}
	}
}

// fieldType maps a field to its static type. Optional scalar and to-one
// members are pointers (absent-or-value); slices and raw JSON are already
// nil-able and stay bare.
func fieldType(f *Field) jen.Code {
	switch f.Kind {
	case load.KindEnumeration:
		return optional(f, jen.Id(f.EnumName))
	case load.KindRelation, load.KindComponent:
		if f.Many {
			return jen.Index().Id(f.TargetName)
		}
		return optional(f, jen.Id(f.TargetName))
	case load.KindDynamicZone:
		return jen.Index().Id(f.ItemName)
	case load.KindMedia:
		if f.Many {
			return jen.Index().Id("Media")
		}
		return optional(f, jen.Id("Media"))
	case load.KindJSON:
		return jen.Qual("encoding/json", "RawMessage")
	case load.KindString, load.KindText, load.KindRichText, load.KindEmail, load.KindUID,
		load.KindDate, load.KindTime:
		return optional(f, jen.String())
	case load.KindInteger:
		return optional(f, jen.Int())
	case load.KindBigInteger:
		return optional(f, jen.Int64())
	case load.KindFloat, load.KindDecimal:
		return optional(f, jen.Float64())
	case load.KindBoolean:
		return optional(f, jen.Bool())
	case load.KindDateTime:
		return optional(f, jen.Qual("time", "Time"))
	default:
		// Unknown kinds pass through as raw JSON.
		return jen.Qual("encoding/json", "RawMessage")
	}
}

func optional(f *Field, base jen.Code) jen.Code {
	if f.Optional {
		return jen.Op("*").Add(base)
	}
	return base
}

func fieldTag(f *Field) map[string]string {
	if f.Optional {
		return map[string]string{"json": f.JSON + ",omitempty"}
	}
	return map[string]string{"json": f.JSON}
}

func emitEnum(f *jen.File, t *Type, fl *Field) {
	f.Commentf("%s enumerates the values of %s.%s.", fl.EnumName, t.Name, fl.Name)
	f.Type().Id(fl.EnumName).String()
	if len(fl.Enums) > 0 {
		f.Const().DefsFunc(func(s *jen.Group) {
			for _, e := range fl.Enums {
				s.Id(e.Name).Id(fl.EnumName).Op("=").Lit(e.Value)
			}
		})
	}
	f.Commentf("Values lists the permitted %s values.", fl.EnumName)
	f.Func().Params(jen.Id(fl.EnumName)).Id("Values").Params().Index().String().Block(
		jen.Return(jen.Index().String().ValuesFunc(func(s *jen.Group) {
			for _, e := range fl.Enums {
				s.Lit(e.Value)
			}
		})),
	)
}

// emitZoneItem generates the tagged union element of a dynamic zone: a
// discriminator plus one pointer member per permissible component, with
// JSON codecs that flatten the active member and carry the component uid
// in the __component key.
func emitZoneItem(f *jen.File, t *Type, fl *Field) {
	name := fl.ItemName
	f.Commentf("%s is one element of %s.%s. Exactly one member is set,", name, t.Name, fl.Name)
	f.Comment("selected by Component.")
	f.Type().Id(name).StructFunc(func(s *jen.Group) {
		s.Id("Component").String().Tag(map[string]string{"json": "__component"})
		for _, m := range fl.Members {
			s.Id(m.Name).Op("*").Id(m.Name).Tag(map[string]string{"json": "-"})
		}
	})

	f.Commentf("MarshalJSON flattens the active member and tags it with the component uid.")
	f.Func().Params(jen.Id("v").Id(name)).Id("MarshalJSON").Params().Params(jen.Index().Byte(), jen.Error()).Block(
		jen.Var().Id("inner").Any(),
		jen.Switch(jen.Id("v").Dot("Component")).BlockFunc(func(s *jen.Group) {
			for _, m := range fl.Members {
				s.Case(jen.Lit(m.UID)).Block(jen.Id("inner").Op("=").Id("v").Dot(m.Name))
			}
			s.Default().Block(jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(
				jen.Lit("unknown component %q"), jen.Id("v").Dot("Component"),
			)))
		}),
		jen.List(jen.Id("raw"), jen.Err()).Op(":=").Qual("encoding/json", "Marshal").Call(jen.Id("inner")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Var().Id("fields").Map(jen.String()).Any(),
		jen.If(
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id("raw"), jen.Op("&").Id("fields")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.If(jen.Id("fields").Op("==").Nil()).Block(
			jen.Id("fields").Op("=").Map(jen.String()).Any().Values(),
		),
		jen.Id("fields").Index(jen.Lit("__component")).Op("=").Id("v").Dot("Component"),
		jen.Return(jen.Qual("encoding/json", "Marshal").Call(jen.Id("fields"))),
	)

	f.Commentf("UnmarshalJSON selects the member matching the __component tag.")
	f.Func().Params(jen.Id("v").Op("*").Id(name)).Id("UnmarshalJSON").Params(jen.Id("data").Index().Byte()).Error().Block(
		jen.Var().Id("probe").Struct(
			jen.Id("Component").String().Tag(map[string]string{"json": "__component"}),
		),
		jen.If(
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id("data"), jen.Op("&").Id("probe")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())),
		jen.Id("v").Dot("Component").Op("=").Id("probe").Dot("Component"),
		jen.Switch(jen.Id("probe").Dot("Component")).BlockFunc(func(s *jen.Group) {
			for _, m := range fl.Members {
				s.Case(jen.Lit(m.UID)).Block(
					jen.Id("v").Dot(m.Name).Op("=").New(jen.Id(m.Name)),
					jen.Return(jen.Qual("encoding/json", "Unmarshal").Call(jen.Id("data"), jen.Id("v").Dot(m.Name))),
				)
			}
			s.Default().Block(jen.Return(jen.Qual("fmt", "Errorf").Call(
				jen.Lit("unknown component %q"), jen.Id("probe").Dot("Component"),
			)))
		}),
	)
}
