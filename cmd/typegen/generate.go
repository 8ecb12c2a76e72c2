package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/contentkit/typegen/compiler/gen"
	"github.com/contentkit/typegen/compiler/load"
)

// fingerprintFile stores the snapshot digest of the last successful run,
// next to the generated output.
const fingerprintFile = ".typegen-fingerprint"

var (
	flagSchema      string
	flagDescriptors string
	flagOut         string
	flagPackage     string
	flagEntry       string
	flagForce       bool
	flagNoFormat    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the typed client once",
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := loadProject()
		if err != nil {
			return err
		}
		return runGenerate(cmd.Context(), pc)
	},
}

func init() {
	generateCmd.Flags().StringVar(&flagSchema, "schema", "", "snapshot file (JSON or YAML)")
	generateCmd.Flags().StringVar(&flagDescriptors, "descriptors", "", "operations/extra-types file")
	generateCmd.Flags().StringVar(&flagOut, "out", "", "output directory")
	generateCmd.Flags().StringVar(&flagPackage, "package", "", "import path of the generated entry package")
	generateCmd.Flags().StringVar(&flagEntry, "entry", "", "entry package name")
	generateCmd.Flags().BoolVar(&flagForce, "force", false, "regenerate even if the snapshot is unchanged")
	generateCmd.Flags().BoolVar(&flagNoFormat, "no-format", false, "skip the cosmetic formatter pass")
	rootCmd.AddCommand(generateCmd)
}

// pick returns the flag value when set, the config value otherwise.
func pick(flag, cfg string) string {
	if flag != "" {
		return flag
	}
	return cfg
}

func runGenerate(ctx context.Context, pc *projectConfig) error {
	var (
		schemaPath = pick(flagSchema, pc.Schema)
		descPath   = pick(flagDescriptors, pc.Descriptors)
		outDir     = pick(flagOut, pc.Out)
		pkgPath    = pick(flagPackage, pc.Package)
	)
	if schemaPath == "" {
		return fmt.Errorf("no schema file configured (--schema or %s)", cfgFile)
	}

	runID := uuid.NewString()
	log := logger.With().Str("run", runID[:8]).Logger()

	snap, err := load.DecodeFile(schemaPath)
	if err != nil {
		return err
	}
	fp, err := snap.Fingerprint()
	if err != nil {
		return err
	}
	if !flagForce && unchanged(outDir, fp) {
		log.Info().Str("schema", schemaPath).Msg("snapshot unchanged, skipping generation")
		return nil
	}

	var desc load.Descriptors
	if descPath != "" {
		d, err := load.DecodeDescriptorsFile(descPath)
		if err != nil {
			return err
		}
		desc = *d
	}

	opts := []gen.Option{
		gen.WithPackage(pkgPath),
		gen.WithTarget(outDir),
		gen.WithLogger(log),
	}
	if entry := pick(flagEntry, pc.Entry); entry != "" {
		opts = append(opts, gen.WithEntry(entry))
	}
	if flagNoFormat {
		opts = append(opts, gen.WithoutFormat())
	}
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return err
	}

	report, err := gen.Generate(ctx, cfg, snap, desc.Operations, desc.ExtraTypes)
	if err != nil {
		return err
	}
	logReport(log, report)
	if report.Failed() {
		return fmt.Errorf("generation finished with write failures")
	}
	if err := os.WriteFile(filepath.Join(outDir, fingerprintFile), []byte(fp+"\n"), 0o644); err != nil {
		log.Warn().Err(err).Msg("could not record snapshot fingerprint")
	}
	return nil
}

// unchanged reports whether the stored fingerprint matches fp.
func unchanged(outDir, fp string) bool {
	raw, err := os.ReadFile(filepath.Join(outDir, fingerprintFile))
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(raw)) == fp
}

func logReport(log zerolog.Logger, report *gen.Report) {
	for _, f := range report.Files {
		if f.Err != nil {
			log.Error().Str("file", f.Path).Err(f.Err).Msg("write failed")
			continue
		}
		log.Info().Str("file", f.Path).Int("bytes", f.Size).Msg("written")
	}
}
