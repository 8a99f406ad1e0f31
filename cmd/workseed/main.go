package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/m-mizutani/clog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"workseed/internal/config"
	"workseed/internal/corpus"
	"workseed/internal/db"
	"workseed/internal/gen"
	"workseed/internal/migrate"
	"workseed/internal/sink"
	"workseed/internal/validate"
)

var rootCmd = &cobra.Command{
	Use:   "workseed",
	Short: "Workseed generates a fully linked synthetic workspace dataset",
	Long: `Workseed builds a realistic SaaS task-management workspace in SQLite:
one organization with teams, users, projects, sections, tasks, dependencies,
comments, attachments, tags and custom fields, all statistically calibrated
against published benchmarks and fully reproducible from (config, seed).`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(removeCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(validateCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("WORKSEED")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to workseed.yml")
	rootCmd.PersistentFlags().String("db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().String("corpus", "", "research corpus directory (default: embedded)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("corpus", rootCmd.PersistentFlags().Lookup("corpus"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch viper.GetString("log-level") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(clog.New(
		clog.WithWriter(os.Stderr),
		clog.WithLevel(level),
	))
}

// loadConfig resolves the effective config: file if given, defaults
// otherwise, with the --db flag on top.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := viper.GetString("config"); path != "" {
		cfg, err = config.FromFile(path)
	} else {
		cfg = config.Default()
		err = cfg.Validate()
	}
	if err != nil {
		return nil, err
	}
	if dbPath := viper.GetString("db"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

func generateCmd() *cobra.Command {
	var (
		seedOverride  int64
		usersOverride int
		resetOverride bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the dataset into SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Generation.Seed = seedOverride
			}
			if cmd.Flags().Changed("users") {
				cfg.Users.TargetCount = usersOverride
			}
			if cmd.Flags().Changed("reset") {
				cfg.Database.ResetOnRun = resetOverride
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			c, err := corpus.Load(viper.GetString("corpus"))
			if err != nil {
				return err
			}

			conn, err := db.Open(db.Config{Path: cfg.Database.Path})
			if err != nil {
				return err
			}
			defer conn.Close()
			if cfg.Database.ResetOnRun {
				if err := migrate.Reset(conn); err != nil {
					return err
				}
			}
			if err := migrate.Migrate(conn); err != nil {
				return err
			}

			ctx := cmd.Context()
			log.Info("generation starting",
				"db", cfg.Database.Path,
				"seed", cfg.Generation.Seed,
				"window_end", cfg.Generation.WindowEnd)

			w, err := sink.Begin(ctx, conn, cfg.Generation.BatchSize)
			if err != nil {
				return err
			}
			sum, err := gen.NewPipeline(cfg, c, log).Run(ctx, w)
			if err != nil {
				_ = w.Rollback()
				return err
			}
			if err := w.Commit(); err != nil {
				return err
			}
			log.Info("generation finished", "tasks", sum.Tasks, "users", sum.Users)
			return printSummary(sum)
		},
	}
	cmd.Flags().Int64Var(&seedOverride, "seed", 0, "seed (overrides config)")
	cmd.Flags().IntVar(&usersOverride, "users", 0, "target user count (overrides config)")
	cmd.Flags().BoolVar(&resetOverride, "reset", false, "drop and recreate the schema before generating")
	return cmd
}

func printSummary(sum *gen.Summary) error {
	if viper.GetBool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Table", "Rows"})
	for _, r := range [][2]any{
		{"organizations", sum.Organizations},
		{"users", sum.Users},
		{"teams", sum.Teams},
		{"team_memberships", sum.Memberships},
		{"projects", sum.Projects},
		{"sections", sum.Sections},
		{"tags", sum.Tags},
		{"tasks", sum.Tasks},
		{"task_dependencies", sum.Dependencies},
		{"comments", sum.Comments},
		{"attachments", sum.Attachments},
		{"task_tags", sum.TaskTags},
		{"custom_field_definitions", sum.FieldDefinitions},
		{"custom_field_enum_options", sum.EnumOptions},
		{"custom_field_values", sum.FieldValues},
	} {
		tw.AppendRow(table.Row{r[0], r[1]})
	}
	tw.Render()
	return nil
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the generated database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := db.Remove(cfg.Database.Path); err != nil {
				return err
			}
			newLogger().Info("database removed", "path", cfg.Database.Path)
			return nil
		},
	}
}

var statTables = []string{
	"organizations", "users", "teams", "team_memberships", "projects",
	"sections", "tags", "tasks", "task_dependencies", "comments",
	"attachments", "task_tags", "custom_field_definitions",
	"custom_field_enum_options", "custom_field_values",
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show row counts for the generated database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			conn, err := db.Open(db.Config{Path: cfg.Database.Path})
			if err != nil {
				return err
			}
			defer conn.Close()

			counts := make(map[string]int64, len(statTables))
			for _, t := range statTables {
				n, err := countRows(cmd.Context(), conn, t)
				if err != nil {
					return err
				}
				counts[t] = n
			}
			if viper.GetBool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(counts)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Table", "Rows"})
			for _, t := range statTables {
				tw.AppendRow(table.Row{t, counts[t]})
			}
			tw.Render()
			return nil
		},
	}
}

func countRows(ctx context.Context, conn *sql.DB, tbl string) (int64, error) {
	var n int64
	err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+tbl).Scan(&n)
	return n, err
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate config, corpus, and the generated database",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if _, err := corpus.Load(viper.GetString("corpus")); err != nil {
				return err
			}
			log.Info("config and corpus are valid",
				"db", cfg.Database.Path, "seed", cfg.Generation.Seed)

			if _, err := os.Stat(cfg.Database.Path); os.IsNotExist(err) {
				log.Info("no database to check, run generate first", "db", cfg.Database.Path)
				return nil
			}
			conn, err := db.Open(db.Config{Path: cfg.Database.Path})
			if err != nil {
				return err
			}
			defer conn.Close()

			findings, err := validate.Run(cmd.Context(), conn)
			if err != nil {
				return err
			}
			if err := printFindings(findings); err != nil {
				return err
			}
			if len(findings) > 0 {
				return fmt.Errorf("database failed %d consistency checks", len(findings))
			}
			log.Info("database is consistent", "db", cfg.Database.Path)
			return nil
		},
	}
}

func printFindings(findings []validate.Finding) error {
	if viper.GetBool("json") {
		if findings == nil {
			findings = []validate.Finding{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(findings)
	}
	if len(findings) == 0 {
		return nil
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Check", "Rows"})
	for _, f := range findings {
		tw.AppendRow(table.Row{f.Check, f.Rows})
	}
	tw.Render()
	return nil
}
