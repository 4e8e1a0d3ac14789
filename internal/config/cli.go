// Package config holds the kong command line of annogen.
package config

import (
	"github.com/alecthomas/kong"

	"github.com/Alia5/annogen/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"ANNOGEN_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of the console" type:"path" env:"ANNOGEN_LOG_FILE"`
	RawFile string `help:"Dump every written artifact to this file" type:"path" env:"ANNOGEN_LOG_RAW_FILE"`
	Format  string `help:"Console log format" enum:"auto,text,json" default:"auto" env:"ANNOGEN_LOG_FORMAT"`
}

type CLI struct {
	Config  string           `help:"Path to a JSON, YAML or TOML configuration file" type:"path" env:"ANNOGEN_CONFIG"`
	Log     Log              `embed:"" prefix:"log."`
	Version kong.VersionFlag `help:"Print the version and exit"`

	Generate  cmd.Generate      `cmd:"" default:"withargs" help:"Generate clients, schema, query builders and seed data from an annotated folder"`
	Watch     cmd.Watch         `cmd:"" help:"Generate, then regenerate whenever a source file changes"`
	Apply     cmd.Apply         `cmd:"" help:"Run the generated schema and seed files against PostgreSQL"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Manage configuration files"`
}
