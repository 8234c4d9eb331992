// Command sqlcli is the terminal SQL-query engine over local CSV/JSON
// tables (spec §1). This entry point wires configuration, logging,
// query history, and the loaders/queryengine/dispatch stack into a
// cobra CLI, following the teacher's own root-command-plus-flags shape.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sqlcli/internal/config"
	"sqlcli/internal/datatable"
	"sqlcli/internal/dispatch"
	"sqlcli/internal/history"
	"sqlcli/internal/loaders"
	"sqlcli/internal/logging"
	"sqlcli/internal/queryengine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	initConfig     bool
	generateConfig bool
	classic        bool
	simple         bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "sqlcli [files...]",
		Short: "Query CSV and JSON files with SQL from the terminal",
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.initConfig, "init-config", false, "interactively set up the config file")
	cmd.Flags().BoolVar(&flags.generateConfig, "generate-config", false, "write the default config file and exit")
	cmd.Flags().BoolVar(&flags.classic, "classic", false, "run the plain REPL instead of the full-screen TUI")
	cmd.Flags().BoolVar(&flags.simple, "simple", false, "run each file's default query once and print the result")

	return cmd
}

func run(paths []string, flags *rootFlags) error {
	if flags.generateConfig {
		path, err := config.GenerateFile(config.Default())
		if err != nil {
			return fmt.Errorf("generate-config: %w", err)
		}
		fmt.Printf("wrote default config to %s\n", path)
		return nil
	}
	if flags.initConfig {
		return runInitConfig()
	}

	if len(paths) == 0 {
		return fmt.Errorf("at least one CSV or JSON file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ring := logging.NewRingBuffer(500)
	logger, err := logging.New(ring, false)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	histPath, err := config.HistoryFilePath()
	if err != nil {
		return fmt.Errorf("resolving history path: %w", err)
	}
	histStore, err := history.Load(histPath, time.Now)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	buffers, err := loadBuffers(paths, cfg, logger)
	if err != nil {
		return err
	}

	if flags.simple {
		return runSimple(buffers)
	}
	return runClassic(buffers, histStore, logger)
}

func runInitConfig() error {
	reader := bufio.NewReader(os.Stdin)
	cfg := config.Default()

	fmt.Print("keybind style [vim/emacs] (vim): ")
	if style, _ := reader.ReadString('\n'); strings.TrimSpace(style) == "emacs" {
		cfg.Keybind.Style = config.KeybindEmacs
	}

	fmt.Print("case-sensitive queries by default? [y/N]: ")
	if ans, _ := reader.ReadString('\n'); strings.EqualFold(strings.TrimSpace(ans), "y") {
		cfg.Query.CaseSensitive = true
	}

	path, err := config.GenerateFile(cfg)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("config written to %s\n", path)
	return nil
}

// namedBuffer pairs a loaded table's dispatch Buffer with the table
// name queries address it by (the SQL surface's single FROM clause,
// spec §4.3).
type namedBuffer struct {
	name string
	buf  *dispatch.Buffer
}

func loadBuffers(paths []string, cfg config.Config, logger *zap.Logger) ([]namedBuffer, error) {
	buffers := make([]namedBuffer, 0, len(paths))
	for _, path := range paths {
		tbl, err := loadPath(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		logger.Info("loaded table", zap.String("name", tbl.Name), zap.Int("rows", tbl.RowCount()), zap.Int("columns", tbl.ColumnCount()))
		engine := queryengine.New(tbl, queryengine.Options{CaseSensitive: cfg.Query.CaseSensitive})
		buffers = append(buffers, namedBuffer{name: tbl.Name, buf: dispatch.NewBuffer(engine)})
	}
	return buffers, nil
}

// loadPath dispatches to the CSV or JSON loader by file extension, or
// to directory-mode loading via doublestar if path is a directory
// (spec §4.2, §6 file formats).
func loadPath(path string) (*datatable.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return loaders.LoadDirectory(path, "*.csv")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loaders.LoadJSON(path)
	default:
		return loaders.LoadCSVAdvanced(path)
	}
}

func runSimple(buffers []namedBuffer) error {
	for _, nb := range buffers {
		if err := nb.buf.RunQuery(fmt.Sprintf("SELECT * FROM %s", nb.name)); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", nb.name, err)
			continue
		}
		out, err := nb.buf.View().ToCSV()
		if err != nil {
			return err
		}
		fmt.Printf("-- %s --\n%s\n", nb.name, out)
	}
	return nil
}

// runClassic is the "--classic" plain REPL (spec §6, "--classic (plain
// REPL)"): read a SQL statement per line, run it against whichever
// loaded table its FROM clause names, print the result as CSV, and
// record it to history (spec §6, "Persisted state").
func runClassic(buffers []namedBuffer, hist *history.Store, logger *zap.Logger) error {
	byName := make(map[string]*dispatch.Buffer, len(buffers))
	var names []string
	for _, nb := range buffers {
		byName[strings.ToLower(nb.name)] = nb.buf
		names = append(names, nb.name)
	}
	fmt.Printf("loaded tables: %s\n", strings.Join(names, ", "))
	fmt.Println("enter a SQL query, or :quit to exit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("sql> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":quit" || line == ":q" {
			break
		}

		buf := selectBuffer(byName, buffers, line)
		if buf == nil {
			fmt.Fprintf(os.Stderr, "unable to resolve target table for: %s\n", line)
			continue
		}

		err := buf.RunQuery(line)
		hist.Record(line, err == nil)
		if err != nil {
			logger.Warn("query failed", zap.String("sql", line), zap.Error(err))
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		out, err := buf.View().ToCSV()
		if err != nil {
			return err
		}
		fmt.Print(out)
	}

	return hist.Save()
}

// selectBuffer resolves the target buffer for sql: the single loaded
// table when there is only one, otherwise one whose name appears as a
// substring of the query text; when several names appear, which of
// them is returned is not defined.
func selectBuffer(byName map[string]*dispatch.Buffer, buffers []namedBuffer, sql string) *dispatch.Buffer {
	if len(buffers) == 1 {
		return buffers[0].buf
	}
	lower := strings.ToLower(sql)
	for name, buf := range byName {
		if strings.Contains(lower, name) {
			return buf
		}
	}
	return nil
}
