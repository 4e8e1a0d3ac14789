// Package generator wires the scanner to every emitter and stages the
// resulting artifacts until all of them succeed.
package generator

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/annogen/internal/codegen/generator/golang"
	"github.com/Alia5/annogen/internal/codegen/generator/sql"
	"github.com/Alia5/annogen/internal/codegen/generator/typescript"
	"github.com/Alia5/annogen/internal/codegen/meta"
	"github.com/Alia5/annogen/internal/codegen/scanner"
	"github.com/Alia5/annogen/internal/log"
)

// Config holds the output locations of one generation run.
type Config struct {
	ClientDir      string `help:"Directory receiving the TypeScript proxy, types and module files" default:"./src/public/app/_service" env:"ANNOGEN_CLIENT_DIR"`
	SchemaDir      string `help:"Directory receiving one DDL file per table" default:"./src/db/_schema" env:"ANNOGEN_SCHEMA_DIR"`
	SeedDir        string `help:"Directory receiving one seed file per testData class" default:"./src/db/_testData" env:"ANNOGEN_SEED_DIR"`
	QueriesFile    string `help:"Go file receiving the query builders" default:"./src/db/queries/queries.generated.go" env:"ANNOGEN_QUERIES_FILE"`
	QueriesPackage string `help:"Package name of the query builder file" default:"queries" env:"ANNOGEN_QUERIES_PACKAGE"`
	CrudImport     string `help:"Import path of the crud statement package" default:"github.com/Alia5/annogen/pkg/crud" env:"ANNOGEN_CRUD_IMPORT"`
}

// Finisher produces the artifacts of an emitter once every class was seen.
type Finisher interface {
	Name() string
	Finish() ([]meta.Artifact, error)
}

// Emitter receives classes in declaration order and reports whether it
// claimed the class.
type Emitter interface {
	Finisher
	Add(class *meta.ClassMetadata) (bool, error)
}

type Generator struct {
	cfg    Config
	logger *slog.Logger
	raw    log.RawLogger
}

func New(cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{cfg: cfg, logger: logger, raw: log.NewRaw(nil)}
}

// WithRawLogger dumps every written artifact to raw.
func (g *Generator) WithRawLogger(raw log.RawLogger) *Generator {
	if raw != nil {
		g.raw = raw
	}
	return g
}

// Build runs every emitter over classes. Nothing is returned unless all of
// them finish without error.
func (g *Generator) Build(classes []*meta.ClassMetadata) ([]meta.Artifact, error) {
	module := typescript.NewModuleEmitter(g.logger, g.cfg.ClientDir)
	proxy := typescript.NewProxyEmitter(g.logger, g.cfg.ClientDir, module)
	types := typescript.NewTypesEmitter(g.logger, g.cfg.ClientDir)
	table := sql.NewTableEmitter(g.logger, g.cfg.SchemaDir)
	queries := golang.NewQueryEmitter(g.logger, golang.Options{
		File:       g.cfg.QueriesFile,
		Package:    g.cfg.QueriesPackage,
		CrudImport: g.cfg.CrudImport,
	})
	seed := sql.NewSeedEmitter(g.logger, g.cfg.SeedDir)

	independent := []Emitter{table, queries, seed}
	for _, class := range classes {
		claimed, err := proxy.Add(class)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", proxy.Name(), err)
		}
		if !claimed {
			if _, err := types.Add(class); err != nil {
				return nil, fmt.Errorf("%s: %w", types.Name(), err)
			}
		}
		for _, e := range independent {
			if _, err := e.Add(class); err != nil {
				return nil, fmt.Errorf("%s: %w", e.Name(), err)
			}
		}
	}

	var artifacts []meta.Artifact
	for _, f := range []Finisher{proxy, module, types, table, queries, seed} {
		out, err := f.Finish()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		g.logger.Debug("Emitter finished", "emitter", f.Name(), "artifacts", len(out))
		artifacts = append(artifacts, out...)
	}
	return artifacts, nil
}

// Run loads folder, builds every artifact and writes them to disk.
func (g *Generator) Run(folder string) error {
	g.logger.Info("Scanning source folder", "folder", folder)
	classes, err := scanner.New(g.logger).Load(folder)
	if err != nil {
		return err
	}
	g.logger.Info("Found classes", "count", len(classes))
	g.logger.Debug("Classes", "names", (&meta.Metadata{Folder: folder, Classes: classes}).Names())

	artifacts, err := g.Build(classes)
	if err != nil {
		return err
	}
	written, err := NewWriter(g.logger, g.raw).Flush(artifacts)
	if err != nil {
		return err
	}
	g.logger.Info("Generation complete", "artifacts", len(artifacts), "written", written)
	return nil
}
