package cmd

import (
	"log/slog"

	"github.com/Alia5/annogen/internal/codegen/generator"
	"github.com/Alia5/annogen/internal/log"
)

type Generate struct {
	Folder string `arg:"" help:"Folder holding the annotated Go sources" type:"path"`

	generator.Config `embed:""`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	logger.Info("Starting annogen", "folder", g.Folder)
	return generator.New(g.Config, logger).WithRawLogger(rawLogger).Run(g.Folder)
}
