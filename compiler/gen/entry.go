package gen

import (
	"bytes"

	"github.com/dave/jennifer/jen"
)

// emitEntry generates the re-export entry package consumers import. It is a
// pure function of the config: it needs the generated package paths and
// nothing from the snapshot, so the surface is fixed: the client and its
// options, the structured error and the media descriptor. Schema declarations
// are reached through the entry client's method signatures.
func emitEntry(cfg *Config) ([]byte, error) {
	f := jen.NewFilePathName(cfg.Package, cfg.entryName())
	f.HeaderComment(cfg.Header)
	f.PackageComment("Package " + cfg.entryName() + " is the single import point of the generated client.")
	f.ImportName(cfg.schemaPkg(), "schema")
	f.ImportName(cfg.clientPkg(), "client")

	f.Comment("Re-exported client surface.")
	f.Type().Defs(
		jen.Id("Client").Op("=").Qual(cfg.clientPkg(), "Client"),
		jen.Id("Option").Op("=").Qual(cfg.clientPkg(), "Option"),
		jen.Id("Error").Op("=").Qual(cfg.clientPkg(), "Error"),
		jen.Id("Media").Op("=").Qual(cfg.schemaPkg(), "Media"),
	)

	f.Var().Defs(
		jen.Comment("New returns a Client for the content API served at baseURL."),
		jen.Id("New").Op("=").Qual(cfg.clientPkg(), "New"),
		jen.Comment("WithHTTPClient sets the underlying HTTP client."),
		jen.Id("WithHTTPClient").Op("=").Qual(cfg.clientPkg(), "WithHTTPClient"),
		jen.Comment("WithToken sets the bearer token sent with every request."),
		jen.Id("WithToken").Op("=").Qual(cfg.clientPkg(), "WithToken"),
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewEmitError(cfg.entryFile(), "render entry point", err)
	}
	return buf.Bytes(), nil
}
