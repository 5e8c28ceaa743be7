package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/schemagen/internal/adapter"
	"github.com/sadopc/schemagen/internal/adapter/file"
	"github.com/sadopc/schemagen/internal/history"
	"github.com/sadopc/schemagen/internal/schema"
	"github.com/sadopc/schemagen/internal/theme"
	"github.com/sadopc/schemagen/internal/wrap"
)

func listDatabases(ctx context.Context, w io.Writer, conn adapter.Connection, th *theme.Theme) error {
	dbs, err := conn.Databases(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, th.Heading.Render("Databases"))
	for _, db := range dbs {
		fmt.Fprintln(w, "  "+th.Item.Render(db.Name))
	}
	return nil
}

func listTables(ctx context.Context, w io.Writer, conn adapter.Connection, database string, th *theme.Theme) error {
	tables, err := conn.Tables(ctx, database)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, th.Heading.Render("Tables in "+database))
	if len(tables) == 0 {
		fmt.Fprintln(w, "  "+th.MutedText.Render("(none)"))
	}
	for _, t := range tables {
		fmt.Fprintln(w, "  "+th.Item.Render(t.Name))
	}
	return nil
}

func newProcsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "procs <database>",
		Short: "List the stored routines of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, o, false)
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

			procs, err := conn.Procedures(ctx, args[0])
			if err != nil {
				return report(cmd, err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, s.th.Heading.Render("Routines in "+args[0]))
			if len(procs) == 0 {
				fmt.Fprintln(w, "  "+s.th.MutedText.Render("(none)"))
			}
			for _, p := range procs {
				fmt.Fprintf(w, "  %s %s\n", s.th.Item.Render(p.Name), s.th.MutedText.Render(strings.ToLower(p.Type)))
			}
			return nil
		},
	}
}

func newDumpCmd(o *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dump <database> [table...]",
		Short: "Write table metadata as a schema file for the file adapter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, o, false)
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

			doc, err := dumpDatabase(ctx, conn, args[0], args[1:])
			if err != nil {
				return report(cmd, err)
			}

			w, closeOut, err := openOutput(cmd.OutOrStdout(), output)
			if err != nil {
				return report(cmd, err)
			}
			defer closeOut()
			return report(cmd, file.Encode(w, doc))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the schema file to a path instead of stdout")
	return cmd
}

// dumpDatabase reads the named tables of database, or all of them when none
// are named, into a schema document.
func dumpDatabase(ctx context.Context, conn adapter.Connection, database string, tables []string) (*file.Document, error) {
	if len(tables) == 0 {
		all, err := conn.Tables(ctx, database)
		if err != nil {
			return nil, err
		}
		for _, t := range all {
			tables = append(tables, t.Name)
		}
	}

	db := file.DatabaseDoc{Name: database}
	for _, name := range tables {
		cols, err := conn.Columns(ctx, database, name)
		if err != nil {
			return nil, err
		}
		db.Tables = append(db.Tables, schema.Table{Name: name, Columns: cols})
	}

	procs, err := conn.Procedures(ctx, database)
	if err != nil {
		return nil, err
	}
	db.Procedures = procs
	return &file.Document{Databases: []file.DatabaseDoc{db}}, nil
}

func newRulerCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ruler",
		Short: "Print a column ruler for checking line widths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, o, false)
			if err != nil {
				return report(cmd, err)
			}
			defer s.close()

			if !cmd.Flags().Changed("limit") {
				limit = s.cfg.Generator.LineLimit
			}
			fmt.Fprintln(cmd.OutOrStdout(), wrap.Ruler(limit, s.th.Heading))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 80, "Ruler width")
	return cmd
}

func newHistoryCmd(o *options) *cobra.Command {
	var (
		limit    int
		search   string
		clearAll bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent generation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, o, false)
			if err != nil {
				return report(cmd, err)
			}
			defer s.close()

			hist, err := history.New()
			if err != nil {
				return report(cmd, err)
			}
			defer hist.Close()

			if clearAll {
				return report(cmd, hist.Clear())
			}

			var entries []history.Entry
			if search != "" {
				entries, err = hist.Search(search, limit)
			} else {
				entries, err = hist.Recent(limit)
			}
			if err != nil {
				return report(cmd, err)
			}
			printHistory(cmd.OutOrStdout(), entries, s.th)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")
	cmd.Flags().StringVar(&search, "search", "", "Only show tables matching a LIKE pattern")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all history")
	return cmd
}

func printHistory(w io.Writer, entries []history.Entry, th *theme.Theme) {
	if len(entries) == 0 {
		fmt.Fprintln(w, th.MutedText.Render("No history entries"))
		return
	}
	for _, e := range entries {
		when := th.MutedText.Render(e.GeneratedAt.Local().Format("2006-01-02 15:04"))
		target := e.TableName
		if e.DatabaseName != "" {
			target = e.DatabaseName + "." + e.TableName
		}
		if e.IsError {
			fmt.Fprintf(w, "%s  %-8s %s  %s\n", when, e.Adapter, target, th.ErrorText.Render(e.Message))
			continue
		}
		n := 0
		if e.Procedures != "" {
			n = strings.Count(e.Procedures, ",") + 1
		}
		fmt.Fprintf(w, "%s  %-8s %s  %s\n", when, e.Adapter, target,
			th.SuccessText.Render(fmt.Sprintf("%d procedures, %d bytes", n, e.Bytes)))
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "schemagen %s (commit: %s, built: %s)\n", version, commit, date)
			fmt.Fprintln(w, "\nSupported adapters:")
			for _, name := range adapter.Names() {
				fmt.Fprintf(w, "  - %s\n", name)
			}
		},
	}
}
