package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/Alia5/annogen/pkg/database"
)

var errNoDSN = errors.New("no database connection string; set --dsn or DATABASE_URL")

type Apply struct {
	DSN       string `name:"dsn" help:"PostgreSQL connection string" env:"DATABASE_URL"`
	EnvFile   string `help:"Dotenv file read for DATABASE_URL when --dsn is not set" default:".env" env:"ANNOGEN_ENV_FILE"`
	SchemaDir string `help:"Directory holding the generated DDL files" default:"./src/db/_schema" env:"ANNOGEN_SCHEMA_DIR"`
	SeedDir   string `help:"Directory holding the generated seed files" default:"./src/db/_testData" env:"ANNOGEN_SEED_DIR"`
	NoSeed    bool   `help:"Only create the tables" env:"ANNOGEN_NO_SEED"`
}

// Run is called by Kong when the apply command is executed.
func (a *Apply) Run(logger *slog.Logger) error {
	dsn, err := a.resolveDSN()
	if err != nil {
		return err
	}
	ctx := context.Background()
	db, err := database.Open(ctx, "postgres", dsn, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	return a.apply(ctx, db, logger)
}

func (a *Apply) resolveDSN() (string, error) {
	if a.DSN != "" {
		return a.DSN, nil
	}
	if a.EnvFile != "" {
		if err := godotenv.Load(a.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("load %s: %w", a.EnvFile, err)
		}
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}
	return "", errNoDSN
}

// apply runs every DDL file, then every seed file, in one transaction.
func (a *Apply) apply(ctx context.Context, db *database.DB, logger *slog.Logger) error {
	scripts, err := loadScripts(a.SchemaDir)
	if err != nil {
		return err
	}
	if !a.NoSeed {
		seeds, err := loadScripts(a.SeedDir)
		if err != nil {
			return err
		}
		rank := make(map[string]int, len(scripts))
		for i, s := range scripts {
			rank[s.Table] = i + 1
		}
		// Seeds follow the table order; unknown tables go last.
		sort.SliceStable(seeds, func(i, j int) bool {
			ri, rj := rank[seeds[i].Table], rank[seeds[j].Table]
			if ri == 0 || rj == 0 {
				return ri != 0 && rj == 0
			}
			return ri < rj
		})
		scripts = append(scripts, seeds...)
	}
	if len(scripts) == 0 {
		logger.Warn("Nothing to apply", "schema", a.SchemaDir, "seed", a.SeedDir)
		return nil
	}

	return db.Transaction(ctx, func(tx *database.Tx) error {
		for _, s := range scripts {
			if _, err := tx.Exec(ctx, s.SQL); err != nil {
				return fmt.Errorf("apply %s: %w", s.Path, err)
			}
			logger.Info("Applied", "file", s.Path, "table", s.Table)
		}
		return nil
	})
}

type script struct {
	Path  string
	Table string
	SQL   string
	deps  []string
}

var referencesRe = regexp.MustCompile(`references\s+([A-Za-z_][A-Za-z0-9_.]*)\s*\(`)

// loadScripts reads the generated files of dir, ordered so that a table
// comes after the tables it references. A missing dir yields no scripts.
func loadScripts(dir string) ([]script, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.generated.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	byTable := make(map[string]*script, len(paths))
	var tables []string
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		s := &script{
			Path:  p,
			Table: strings.TrimSuffix(filepath.Base(p), ".generated.sql"),
			SQL:   string(content),
		}
		for _, m := range referencesRe.FindAllStringSubmatch(s.SQL, -1) {
			if m[1] != s.Table {
				s.deps = append(s.deps, m[1])
			}
		}
		byTable[s.Table] = s
		tables = append(tables, s.Table)
	}

	var ordered []script
	state := map[string]int{} // 1 visiting, 2 done
	var visit func(table string) error
	visit = func(table string) error {
		s, ok := byTable[table]
		if !ok || state[table] == 2 {
			return nil
		}
		if state[table] == 1 {
			return fmt.Errorf("foreign key cycle through %s", table)
		}
		state[table] = 1
		for _, dep := range s.deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[table] = 2
		ordered = append(ordered, *s)
		return nil
	}
	for _, t := range tables {
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
