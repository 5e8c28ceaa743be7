package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/schemagen/internal/adapter"
	"github.com/sadopc/schemagen/internal/app"
	"github.com/sadopc/schemagen/internal/config"
	"github.com/sadopc/schemagen/internal/highlight"
	"github.com/sadopc/schemagen/internal/history"
	"github.com/sadopc/schemagen/internal/logging"
	"github.com/sadopc/schemagen/internal/procgen"
	"github.com/sadopc/schemagen/internal/theme"
	"github.com/sadopc/schemagen/internal/ui/picker"

	// Register schema adapters
	_ "github.com/sadopc/schemagen/internal/adapter/file"
	_ "github.com/sadopc/schemagen/internal/adapter/mysql"
	_ "github.com/sadopc/schemagen/internal/adapter/postgres"
	_ "github.com/sadopc/schemagen/internal/adapter/sqlite"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options holds every command-line flag.
type options struct {
	conn       connFlags
	configPath string
	logLevel   string
	color      string

	prefix        string
	kinds         []string
	confirm       []string
	tabStop       int
	delimiter     string
	limit         int
	itemsPerLine  int
	enumAsVarchar bool
	noScript      bool
	output        string
	pick          bool
	all           bool
}

// session is the state shared by every command once flags are parsed.
type session struct {
	opts *options
	cfg  *config.Config
	log  *zap.Logger
	th   *theme.Theme
	hist *history.History
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "schemagen [database [table...]]",
		Short: "Generate MySQL CRUD stored procedures from table metadata",
		Long: `schemagen reads column metadata and writes List, Add, Read, Update and
Delete stored procedures for each table, wrapped to a fixed line width.

Examples:
  schemagen --dsn 'root:pw@tcp(localhost:3306)/'        # List databases
  schemagen -a mysql -u root shop                       # List tables of shop
  schemagen -a mysql -u root shop users orders          # Generate procedures
  schemagen -n prod shop --pick                         # Choose tables interactively
  schemagen -a file -f shop.yaml shop --all -o shop.sql # Every table from a schema file`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, o, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&o.conn.adapter, "adapter", "a", "", "Schema adapter ("+adapterList()+")")
	pf.StringVar(&o.conn.dsn, "dsn", "", "Connection string")
	pf.StringVarP(&o.conn.host, "host", "H", "", "Database host")
	pf.IntVarP(&o.conn.port, "port", "p", 0, "Database port")
	pf.StringVarP(&o.conn.user, "user", "u", "", "Database user")
	pf.StringVarP(&o.conn.password, "password", "P", "", "Database password")
	pf.StringVarP(&o.conn.database, "dbname", "d", "", "Database to connect to (postgres)")
	pf.StringVarP(&o.conn.file, "file", "f", "", "Schema file (sqlite, file)")
	pf.StringVarP(&o.conn.connection, "connection", "n", "", "Saved connection name")
	pf.StringVarP(&o.configPath, "config", "c", "", "Config file path")
	pf.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&o.color, "color", "", "Colour output: auto, always or never")

	f := rootCmd.Flags()
	f.StringVar(&o.prefix, "prefix", "", "Procedure name prefix (default derived from each table)")
	f.StringSliceVar(&o.kinds, "kinds", nil, "Procedure kinds to generate (list, add, read, update, delete)")
	f.StringSliceVar(&o.confirm, "confirm", nil, "Columns that must match before update or delete")
	f.IntVar(&o.tabStop, "tabstop", 0, "Indent width")
	f.StringVar(&o.delimiter, "delimiter", "", "Statement delimiter")
	f.IntVar(&o.limit, "limit", 0, "Maximum line width")
	f.IntVar(&o.itemsPerLine, "items-per-line", 0, "Maximum list items per line (0 for no cap)")
	f.BoolVar(&o.enumAsVarchar, "enum-as-varchar", false, "Declare ENUM parameters as VARCHAR")
	f.BoolVar(&o.noScript, "no-script", false, "Omit the DELIMITER directives")
	f.StringVarP(&o.output, "output", "o", "", "Write procedures to a file instead of stdout")
	f.BoolVar(&o.pick, "pick", false, "Choose tables interactively")
	f.BoolVar(&o.all, "all", false, "Generate every table of the database")
	rootCmd.MarkFlagsMutuallyExclusive("pick", "all")

	rootCmd.AddCommand(
		newProcsCmd(o),
		newDumpCmd(o),
		newRulerCmd(o),
		newHistoryCmd(o),
		newVersionCmd(),
	)
	return rootCmd
}

func runRoot(cmd *cobra.Command, o *options, args []string) error {
	s, err := newSession(cmd, o, true)
	if err != nil {
		return report(cmd, err)
	}
	defer s.close()

	ctx := cmd.Context()
	conn, err := s.connect(ctx)
	if err != nil {
		return report(cmd, err)
	}
	defer conn.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		return report(cmd, listDatabases(ctx, out, conn, s.th))
	}

	database := args[0]
	gen := s.generator(conn)
	tables := args[1:]
	if len(tables) == 0 {
		switch {
		case o.all:
			tables, err = gen.TableNames(ctx, database)
		case o.pick:
			tables, err = pickTables(ctx, gen, database, s.th)
			if errors.Is(err, picker.ErrAborted) {
				return nil
			}
		default:
			return report(cmd, listTables(ctx, out, conn, database, s.th))
		}
		if err != nil {
			return report(cmd, err)
		}
	}

	kinds, err := procgen.ParseKinds(o.kinds)
	if err != nil {
		return report(cmd, err)
	}

	w, closeOut, err := openOutput(out, o.output)
	if err != nil {
		return report(cmd, err)
	}
	defer closeOut()

	req := app.Request{
		Database: database,
		Tables:   tables,
		Prefix:   s.cfg.Generator.Prefix,
		Kinds:    kinds,
		Confirm:  o.confirm,
		Script:   !o.noScript,
	}
	return report(cmd, s.generate(ctx, w, gen, req))
}

// generate runs req, colouring the result when w is a terminal.
func (s *session) generate(ctx context.Context, w io.Writer, gen *app.Generator, req app.Request) error {
	if !colorEnabled(s.cfg.Output.Color, w) {
		return gen.Generate(ctx, w, req)
	}
	var buf bytes.Buffer
	err := gen.Generate(ctx, &buf, req)
	if _, werr := io.WriteString(w, highlight.New().Highlight(buf.String(), s.th)); werr != nil && err == nil {
		err = werr
	}
	return err
}

func pickTables(ctx context.Context, gen *app.Generator, database string, th *theme.Theme) ([]string, error) {
	names, err := gen.TableNames(ctx, database)
	if err != nil {
		return nil, err
	}
	return picker.Run(ctx, names, th)
}

// newSession loads configuration, applies flag overrides and builds the
// logger. withHistory opens the history database when the config enables it.
func newSession(cmd *cobra.Command, o *options, withHistory bool) (*session, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	// Subcommands reuse some flag names (--limit) for their own purposes.
	set := func(name string) bool {
		if cmd != cmd.Root() && cmd.InheritedFlags().Lookup(name) == nil {
			return false
		}
		return cmd.Flags().Changed(name)
	}
	applyFlags(set, o, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	setColorProfile(cfg.Output.Color)

	s := &session{
		opts: o,
		cfg:  cfg,
		log:  logger,
		th:   theme.Get(cfg.Output.Theme),
	}
	if withHistory && cfg.History {
		hist, err := history.New()
		if err != nil {
			logger.Warn("history disabled", zap.Error(err))
		} else {
			s.hist = hist
		}
	}
	return s, nil
}

func (s *session) close() {
	if s.hist != nil {
		s.hist.Close()
	}
	_ = s.log.Sync()
}

func (s *session) connect(ctx context.Context) (adapter.Connection, error) {
	name, dsn, err := s.opts.conn.resolve(s.cfg)
	if err != nil {
		return nil, err
	}
	return app.Connect(ctx, name, dsn, s.log)
}

func (s *session) generator(conn adapter.Connection) *app.Generator {
	g := s.cfg.Generator
	gen := &app.Generator{
		Conn: conn,
		Emitter: procgen.New(procgen.Options{
			TabStop:       g.TabSize,
			Delimiter:     g.Delimiter,
			Limit:         g.LineLimit,
			ItemsPerLine:  g.ItemsPerLine,
			EnumAsVarchar: g.EnumAsVarchar,
		}),
		Logger: s.log,
	}
	if s.hist != nil {
		gen.History = s.hist
	}
	return gen
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// applyFlags overrides cfg with the flags the user set explicitly.
func applyFlags(set func(name string) bool, o *options, cfg *config.Config) {
	g := &cfg.Generator
	if set("prefix") {
		g.Prefix = o.prefix
	}
	if set("tabstop") {
		g.TabSize = o.tabStop
	}
	if set("delimiter") {
		g.Delimiter = o.delimiter
	}
	if set("limit") {
		g.LineLimit = o.limit
	}
	if set("items-per-line") {
		g.ItemsPerLine = o.itemsPerLine
	}
	if set("enum-as-varchar") {
		g.EnumAsVarchar = o.enumAsVarchar
	}
	if set("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if set("color") {
		cfg.Output.Color = o.color
	}
}

// report prints err to the command's error stream and returns it.
func report(cmd *cobra.Command, err error) error {
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}
