package gen

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/contentkit/typegen/compiler/load"
)

// emitClient generates the access-layer package: a Client with the default
// operation set per content type, one namespace per controller for the
// supplied operation descriptors, and the raw extra-type declarations.
// Returned warnings record typing gaps in descriptors; they never abort
// generation.
func emitClient(g *Graph, ops []load.Operation, extras []load.ExtraType) ([]byte, []Warning, error) {
	f := jen.NewFilePathName(g.cfg.clientPkg(), "client")
	f.HeaderComment(g.cfg.Header)
	f.PackageComment("Package client holds the generated typed access layer.")
	f.ImportName(g.cfg.schemaPkg(), "schema")

	emitClientCore(f)
	for _, t := range g.Nodes {
		emitDefaultOps(f, g.cfg, t)
	}
	warns := emitControllers(f, ops)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, nil, NewEmitError(g.cfg.clientFile(), "render access layer", err)
	}
	appendExtraTypes(&buf, extras)
	return buf.Bytes(), warns, nil
}

// emitClientCore generates the fixed surface every snapshot shares: the
// Client, its options, the structured Error and the envelope plumbing.
func emitClientCore(f *jen.File) {
	f.Comment("Client talks to the content API over HTTP.")
	f.Type().Id("Client").StructFunc(func(s *jen.Group) {
		s.Id("base").String()
		s.Id("hc").Op("*").Qual("net/http", "Client")
		s.Id("token").String()
	})

	f.Comment("Option configures a Client.")
	f.Type().Id("Option").Func().Params(jen.Op("*").Id("Client"))

	f.Comment("New returns a Client for the content API served at baseURL.")
	f.Func().Id("New").Params(jen.Id("baseURL").String(), jen.Id("opts").Op("...").Id("Option")).Op("*").Id("Client").Block(
		jen.Id("c").Op(":=").Op("&").Id("Client").Values(jen.Dict{
			jen.Id("base"): jen.Qual("strings", "TrimRight").Call(jen.Id("baseURL"), jen.Lit("/")),
			jen.Id("hc"):   jen.Qual("net/http", "DefaultClient"),
		}),
		jen.For(jen.List(jen.Id("_"), jen.Id("opt")).Op(":=").Range().Id("opts")).Block(
			jen.Id("opt").Call(jen.Id("c")),
		),
		jen.Return(jen.Id("c")),
	)

	f.Comment("WithHTTPClient sets the underlying HTTP client.")
	f.Func().Id("WithHTTPClient").Params(jen.Id("hc").Op("*").Qual("net/http", "Client")).Id("Option").Block(
		jen.Return(jen.Func().Params(jen.Id("c").Op("*").Id("Client")).Block(
			jen.Id("c").Dot("hc").Op("=").Id("hc"),
		)),
	)

	f.Comment("WithToken sets the bearer token sent with every request.")
	f.Func().Id("WithToken").Params(jen.Id("token").String()).Id("Option").Block(
		jen.Return(jen.Func().Params(jen.Id("c").Op("*").Id("Client")).Block(
			jen.Id("c").Dot("token").Op("=").Id("token"),
		)),
	)

	f.Comment("Error is the structured failure reported by the API.")
	f.Type().Id("Error").StructFunc(func(s *jen.Group) {
		s.Id("Status").Int().Tag(map[string]string{"json": "status"})
		s.Id("Name").String().Tag(map[string]string{"json": "name"})
		s.Id("Message").String().Tag(map[string]string{"json": "message"})
		s.Id("Details").Qual("encoding/json", "RawMessage").Tag(map[string]string{"json": "details,omitempty"})
	})

	f.Func().Params(jen.Id("e").Op("*").Id("Error")).Id("Error").Params().String().Block(
		jen.If(jen.Id("e").Dot("Name").Op("!=").Lit("")).Block(
			jen.Return(jen.Qual("fmt", "Sprintf").Call(
				jen.Lit("%s (%d): %s"), jen.Id("e").Dot("Name"), jen.Id("e").Dot("Status"), jen.Id("e").Dot("Message"),
			)),
		),
		jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit("request failed with status %d"), jen.Id("e").Dot("Status"))),
	)

	f.Comment("payload is the request envelope for create and update calls.")
	f.Type().Id("payload").Struct(
		jen.Id("Data").Any().Tag(map[string]string{"json": "data"}),
	)

	f.Comment("do performs one request and decodes the uniform {data, error} envelope.")
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("do").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.List(jen.Id("method"), jen.Id("path")).String(),
		jen.List(jen.Id("body"), jen.Id("out")).Any(),
	).Error().Block(
		jen.Var().Id("rd").Qual("io", "Reader"),
		jen.If(jen.Id("body").Op("!=").Nil()).Block(
			jen.List(jen.Id("raw"), jen.Err()).Op(":=").Qual("encoding/json", "Marshal").Call(jen.Id("body")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
			jen.Id("rd").Op("=").Qual("bytes", "NewReader").Call(jen.Id("raw")),
		),
		jen.List(jen.Id("req"), jen.Err()).Op(":=").Qual("net/http", "NewRequestWithContext").Call(
			jen.Id("ctx"), jen.Id("method"), jen.Id("c").Dot("base").Op("+").Id("path"), jen.Id("rd"),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Id("req").Dot("Header").Dot("Set").Call(jen.Lit("Content-Type"), jen.Lit("application/json")),
		jen.If(jen.Id("c").Dot("token").Op("!=").Lit("")).Block(
			jen.Id("req").Dot("Header").Dot("Set").Call(jen.Lit("Authorization"), jen.Lit("Bearer ").Op("+").Id("c").Dot("token")),
		),
		jen.List(jen.Id("res"), jen.Err()).Op(":=").Id("c").Dot("hc").Dot("Do").Call(jen.Id("req")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Defer().Id("res").Dot("Body").Dot("Close").Call(),
		jen.List(jen.Id("raw"), jen.Err()).Op(":=").Qual("io", "ReadAll").Call(jen.Id("res").Dot("Body")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Var().Id("env").Struct(
			jen.Id("Data").Qual("encoding/json", "RawMessage").Tag(map[string]string{"json": "data"}),
			jen.Id("Error").Op("*").Id("Error").Tag(map[string]string{"json": "error"}),
		),
		jen.If(jen.Len(jen.Id("raw")).Op(">").Lit(0)).Block(
			jen.If(
				jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id("raw"), jen.Op("&").Id("env")),
				jen.Err().Op("!=").Nil().Op("&&").Id("res").Dot("StatusCode").Op("<").Lit(400),
			).Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("decode response: %w"), jen.Err())),
			),
		),
		jen.If(jen.Id("env").Dot("Error").Op("!=").Nil()).Block(
			jen.If(jen.Id("env").Dot("Error").Dot("Status").Op("==").Lit(0)).Block(
				jen.Id("env").Dot("Error").Dot("Status").Op("=").Id("res").Dot("StatusCode"),
			),
			jen.Return(jen.Id("env").Dot("Error")),
		),
		jen.If(jen.Id("res").Dot("StatusCode").Op(">=").Lit(400)).Block(
			jen.Return(jen.Op("&").Id("Error").Values(jen.Dict{
				jen.Id("Status"): jen.Id("res").Dot("StatusCode"),
				jen.Id("Name"):   jen.Qual("net/http", "StatusText").Call(jen.Id("res").Dot("StatusCode")),
			})),
		),
		jen.If(jen.Id("out").Op("!=").Nil().Op("&&").Len(jen.Id("env").Dot("Data")).Op(">").Lit(0)).Block(
			jen.Return(jen.Qual("encoding/json", "Unmarshal").Call(jen.Id("env").Dot("Data"), jen.Id("out"))),
		),
		jen.Return(jen.Nil()),
	)

	f.Comment("fillPath substitutes :name segments from the fields of params.")
	f.Comment("Longer names are substituted first so one parameter never clobbers")
	f.Comment("a prefix of another (:idx before :id).")
	f.Func().Id("fillPath").Params(jen.Id("tmpl").String(), jen.Id("params").Any()).String().Block(
		jen.List(jen.Id("raw"), jen.Err()).Op(":=").Qual("encoding/json", "Marshal").Call(jen.Id("params")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Id("tmpl"))),
		jen.Var().Id("fields").Map(jen.String()).Any(),
		jen.If(
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id("raw"), jen.Op("&").Id("fields")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Id("tmpl"))),
		jen.Id("keys").Op(":=").Make(jen.Index().String(), jen.Lit(0), jen.Len(jen.Id("fields"))),
		jen.For(jen.Id("k").Op(":=").Range().Id("fields")).Block(
			jen.Id("keys").Op("=").Append(jen.Id("keys"), jen.Id("k")),
		),
		jen.Qual("sort", "Slice").Call(jen.Id("keys"), jen.Func().Params(jen.List(jen.Id("i"), jen.Id("j")).Int()).Bool().Block(
			jen.Return(jen.Len(jen.Id("keys").Index(jen.Id("i"))).Op(">").Len(jen.Id("keys").Index(jen.Id("j")))),
		)),
		jen.For(jen.List(jen.Id("_"), jen.Id("k")).Op(":=").Range().Id("keys")).Block(
			jen.Id("tmpl").Op("=").Qual("strings", "ReplaceAll").Call(
				jen.Id("tmpl"), jen.Lit(":").Op("+").Id("k"),
				jen.Qual("net/url", "PathEscape").Call(jen.Qual("fmt", "Sprint").Call(jen.Id("fields").Index(jen.Id("k")))),
			),
		),
		jen.Return(jen.Id("tmpl")),
	)

	f.Comment("encodeQuery flattens query into URL query parameters.")
	f.Func().Id("encodeQuery").Params(jen.Id("query").Any()).String().Block(
		jen.List(jen.Id("raw"), jen.Err()).Op(":=").Qual("encoding/json", "Marshal").Call(jen.Id("query")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Lit(""))),
		jen.Var().Id("fields").Map(jen.String()).Any(),
		jen.If(
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id("raw"), jen.Op("&").Id("fields")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Lit(""))),
		jen.Id("vals").Op(":=").Qual("net/url", "Values").Values(),
		jen.For(jen.List(jen.Id("k"), jen.Id("v")).Op(":=").Range().Id("fields")).Block(
			jen.Id("vals").Dot("Set").Call(jen.Id("k"), jen.Qual("fmt", "Sprint").Call(jen.Id("v"))),
		),
		jen.Return(jen.Id("vals").Dot("Encode").Call()),
	)
}

// emitDefaultOps generates the default operation set of one content type.
// Collection types take a document identifier on get, update and delete;
// single types never do.
func emitDefaultOps(f *jen.File, cfg *Config, t *Type) {
	recv := jen.Id("c").Op("*").Id("Client")
	ctx := jen.Id("ctx").Qual("context", "Context")
	decl := func() *jen.Statement { return jen.Qual(cfg.schemaPkg(), t.Name) }
	idPath := func() *jen.Statement {
		return jen.Lit(t.BasePath + "/").Op("+").Qual("net/url", "PathEscape").Call(jen.Id("id"))
	}

	if t.Singleton {
		f.Commentf("Get%s fetches the %s document.", t.Singular, t.Display)
		f.Func().Params(recv).Id("Get"+t.Singular).Params(ctx).Params(jen.Op("*").Add(decl()), jen.Error()).Block(
			jen.Id("out").Op(":=").New(decl()),
			jen.If(
				jen.Err().Op(":=").Id("c").Dot("do").Call(jen.Id("ctx"), jen.Qual("net/http", "MethodGet"), jen.Lit(t.BasePath), jen.Nil(), jen.Id("out")),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Return(jen.Id("out"), jen.Nil()),
		)

		f.Commentf("Update%s writes the %s document, creating it if absent.", t.Singular, t.Display)
		f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Update"+t.Singular).Params(ctx, jen.Id("input").Add(decl())).Params(jen.Op("*").Add(decl()), jen.Error()).Block(
			jen.Id("out").Op(":=").New(decl()),
			jen.If(
				jen.Err().Op(":=").Id("c").Dot("do").Call(
					jen.Id("ctx"), jen.Qual("net/http", "MethodPut"), jen.Lit(t.BasePath),
					jen.Id("payload").Values(jen.Dict{jen.Id("Data"): jen.Id("input")}), jen.Id("out"),
				),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Return(jen.Id("out"), jen.Nil()),
		)

		f.Commentf("Delete%s removes the %s document.", t.Singular, t.Display)
		f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Delete"+t.Singular).Params(ctx).Error().Block(
			jen.Return(jen.Id("c").Dot("do").Call(jen.Id("ctx"), jen.Qual("net/http", "MethodDelete"), jen.Lit(t.BasePath), jen.Nil(), jen.Nil())),
		)
		return
	}

	f.Commentf("List%s fetches all %s documents.", t.Plural, t.Display)
	f.Func().Params(recv).Id("List"+t.Plural).Params(ctx).Params(jen.Index().Add(decl()), jen.Error()).Block(
		jen.Var().Id("out").Index().Add(decl()),
		jen.If(
			jen.Err().Op(":=").Id("c").Dot("do").Call(jen.Id("ctx"), jen.Qual("net/http", "MethodGet"), jen.Lit(t.BasePath), jen.Nil(), jen.Op("&").Id("out")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Return(jen.Id("out"), jen.Nil()),
	)

	f.Commentf("Get%s fetches one %s document by id.", t.Singular, t.Display)
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Get"+t.Singular).Params(ctx, jen.Id("id").String()).Params(jen.Op("*").Add(decl()), jen.Error()).Block(
		jen.Id("out").Op(":=").New(decl()),
		jen.If(
			jen.Err().Op(":=").Id("c").Dot("do").Call(jen.Id("ctx"), jen.Qual("net/http", "MethodGet"), idPath(), jen.Nil(), jen.Id("out")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Return(jen.Id("out"), jen.Nil()),
	)

	f.Commentf("Create%s creates a %s document.", t.Singular, t.Display)
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Create"+t.Singular).Params(ctx, jen.Id("input").Add(decl())).Params(jen.Op("*").Add(decl()), jen.Error()).Block(
		jen.Id("out").Op(":=").New(decl()),
		jen.If(
			jen.Err().Op(":=").Id("c").Dot("do").Call(
				jen.Id("ctx"), jen.Qual("net/http", "MethodPost"), jen.Lit(t.BasePath),
				jen.Id("payload").Values(jen.Dict{jen.Id("Data"): jen.Id("input")}), jen.Id("out"),
			),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Return(jen.Id("out"), jen.Nil()),
	)

	f.Commentf("Update%s updates one %s document by id.", t.Singular, t.Display)
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Update"+t.Singular).Params(ctx, jen.Id("id").String(), jen.Id("input").Add(decl())).Params(jen.Op("*").Add(decl()), jen.Error()).Block(
		jen.Id("out").Op(":=").New(decl()),
		jen.If(
			jen.Err().Op(":=").Id("c").Dot("do").Call(
				jen.Id("ctx"), jen.Qual("net/http", "MethodPut"), idPath(),
				jen.Id("payload").Values(jen.Dict{jen.Id("Data"): jen.Id("input")}), jen.Id("out"),
			),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Return(jen.Id("out"), jen.Nil()),
	)

	f.Commentf("Delete%s removes one %s document by id.", t.Singular, t.Display)
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Delete"+t.Singular).Params(ctx, jen.Id("id").String()).Error().Block(
		jen.Return(jen.Id("c").Dot("do").Call(jen.Id("ctx"), jen.Qual("net/http", "MethodDelete"), idPath(), jen.Nil(), jen.Nil())),
	)
}

// emitControllers generates one namespace per owning controller and one
// method per action. Two descriptors with the same controller and action
// override: only the last definition is emitted, matching a controller module
// whose final export wins.
func emitControllers(f *jen.File, ops []load.Operation) []Warning {
	var (
		warns    []Warning
		order    []string
		byCtrl   = make(map[string][]load.Operation)
		position = make(map[string]map[string]int)
	)
	for _, op := range ops {
		if _, ok := byCtrl[op.Controller]; !ok {
			order = append(order, op.Controller)
			position[op.Controller] = make(map[string]int)
		}
		if i, ok := position[op.Controller][op.Action]; ok {
			byCtrl[op.Controller][i] = op // last wins
			continue
		}
		position[op.Controller][op.Action] = len(byCtrl[op.Controller])
		byCtrl[op.Controller] = append(byCtrl[op.Controller], op)
	}
	for _, ctrl := range order {
		nsName := typeName(ctrl) + "Ops"
		f.Commentf("%s groups the custom operations of the %s controller.", nsName, ctrl)
		f.Type().Id(nsName).Struct(jen.Id("c").Op("*").Id("Client"))
		f.Commentf("%s returns the %s operation namespace.", typeName(ctrl), ctrl)
		f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id(typeName(ctrl)).Params().Id(nsName).Block(
			jen.Return(jen.Id(nsName).Values(jen.Dict{jen.Id("c"): jen.Id("c")})),
		)
		for _, op := range byCtrl[ctrl] {
			warns = append(warns, emitOperation(f, nsName, op)...)
		}
	}
	return warns
}

// emitOperation generates one custom access-layer entry. Explicit type
// references from the descriptor are emitted verbatim; missing body or
// response types degrade to untyped payloads with a recorded warning.
func emitOperation(f *jen.File, nsName string, op load.Operation) []Warning {
	var (
		warns   []Warning
		types   = op.Types
		name    = pascal(op.Action)
		method  = strings.ToUpper(op.Method)
		hasBody = method == "POST" || method == "PUT" || method == "PATCH"
	)
	if types == nil {
		types = &load.OperationTypes{}
	}

	args := []jen.Code{jen.Id("ctx").Qual("context", "Context")}
	pathExpr := &jen.Statement{}
	switch {
	case types.Params != "":
		args = append(args, jen.Id("params").Id(types.Params))
		pathExpr.Id("fillPath").Call(jen.Lit(op.Path), jen.Id("params"))
	default:
		first := true
		add := func(c jen.Code) {
			if !first {
				pathExpr.Op("+")
			}
			pathExpr.Add(c)
			first = false
		}
		lit := ""
		for i, seg := range strings.Split(op.Path, "/") {
			if !strings.HasPrefix(seg, ":") {
				if i > 0 {
					lit += "/"
				}
				lit += seg
				continue
			}
			arg := safeArg(seg[1:])
			args = append(args, jen.Id(arg).String())
			add(jen.Lit(lit + "/"))
			add(jen.Qual("net/url", "PathEscape").Call(jen.Id(arg)))
			lit = ""
		}
		if lit != "" || first {
			add(jen.Lit(lit))
		}
	}
	if types.Query != "" {
		args = append(args, jen.Id("query").Id(types.Query))
		pathExpr = jen.Parens(pathExpr).Op("+").Lit("?").Op("+").Id("encodeQuery").Call(jen.Id("query"))
	}

	// An explicit body type is honored verbatim whatever the method; only
	// methods that conventionally carry a body degrade to any when untyped.
	bodyArg := jen.Nil()
	switch {
	case types.Body != "":
		args = append(args, jen.Id("body").Id(types.Body))
		bodyArg = jen.Id("body")
	case hasBody:
		args = append(args, jen.Id("body").Any())
		warns = append(warns, Warning{
			Code:    "untyped-operation",
			Message: fmt.Sprintf("%s.%s: no body type declared, using any", op.Controller, op.Action),
		})
		bodyArg = jen.Id("body")
	}

	respType := jen.Code(jen.Qual("encoding/json", "RawMessage"))
	if types.Response != "" {
		respType = jen.Id(types.Response)
	} else {
		warns = append(warns, Warning{
			Code:    "untyped-operation",
			Message: fmt.Sprintf("%s.%s: no response type declared, returning raw JSON", op.Controller, op.Action),
		})
	}

	f.Commentf("%s calls %s %s.", name, method, op.Path)
	f.Func().Params(jen.Id("o").Id(nsName)).Id(name).Params(args...).Params(respType, jen.Error()).Block(
		jen.Var().Id("out").Add(respType),
		jen.If(
			jen.Err().Op(":=").Id("o").Dot("c").Dot("do").Call(
				jen.Id("ctx"), jen.Lit(method), pathExpr, bodyArg, jen.Op("&").Id("out"),
			),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Id("out"), jen.Err())),
		jen.Return(jen.Id("out"), jen.Nil()),
	)
	return warns
}

// safeArg converts a path parameter to a method argument name that cannot
// shadow the fixed argument names or a Go keyword.
func safeArg(name string) string {
	arg := lowerCamel(name)
	switch arg {
	case "", "ctx", "body", "query", "params", "out", "o", "c":
		return arg + "Arg"
	}
	if token.Lookup(arg).IsKeyword() {
		return arg + "Arg"
	}
	return arg
}

// appendExtraTypes writes the standalone descriptor-supplied declarations
// after the rendered file. Definitions are raw type-definition text and are
// trusted as-is; invalid text is caught by the compile gate, and duplicate
// names collapse to the last definition.
func appendExtraTypes(buf *bytes.Buffer, extras []load.ExtraType) {
	var (
		order []string
		last  = make(map[string]load.ExtraType)
	)
	for _, x := range extras {
		if _, ok := last[x.Name]; !ok {
			order = append(order, x.Name)
		}
		last[x.Name] = x
	}
	for _, name := range order {
		x := last[name]
		buf.WriteString("\n")
		if x.Controller != "" {
			fmt.Fprintf(buf, "// %s is supplied by the %s controller descriptors.\n", x.Name, x.Controller)
		} else {
			fmt.Fprintf(buf, "// %s is supplied by the schema descriptors.\n", x.Name)
		}
		fmt.Fprintf(buf, "type %s %s\n", x.Name, x.Definition)
	}
}
