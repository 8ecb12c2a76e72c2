package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	logger zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "typegen",
	Short: "Generate a typed Go client from a content-model schema",
	Long: `typegen turns a content-model schema (content types, components and
their attributes) into a typed Go client: declarations, an HTTP access
layer and a single entry package. Output is type-checked in memory
before it is written, so a successful run always leaves a compilable
client behind.

Quick start:
  typegen generate   # Generate once from the configured schema
  typegen watch      # Regenerate whenever the schema file changes`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "typegen.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// projectConfig is the typegen.yaml file. Flags override its values.
type projectConfig struct {
	// Schema is the snapshot file (JSON or YAML).
	Schema string `yaml:"schema"`
	// Descriptors is the optional operations/extra-types file.
	Descriptors string `yaml:"descriptors"`
	// Out is the output directory of the generated entry package.
	Out string `yaml:"out"`
	// Package is the import path of the generated entry package.
	Package string `yaml:"package"`
	// Entry overrides the entry package name.
	Entry string `yaml:"entry"`
}

// loadProject reads the config file if present. A missing file is not an
// error; everything can be supplied by flags.
func loadProject() (*projectConfig, error) {
	pc := &projectConfig{}
	raw, err := os.ReadFile(cfgFile)
	if os.IsNotExist(err) {
		return pc, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, pc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cfgFile, err)
	}
	return pc, nil
}
