package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/upload"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newMigrateCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := database.Migrate(cmd.Context(), a.db, c.cfg.DBDriver); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newImportSalesCommand(c *cli) *cobra.Command {
	var file, onDuplicate string

	cmd := &cobra.Command{
		Use:   "import-sales",
		Short: "Import a sales CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := usecase.ParseDuplicatePolicy(onDuplicate)
			if err != nil {
				return err
			}

			a, err := newApp(c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := upload.LocalFile(file)
			if err != nil {
				return err
			}
			parser, err := f.Parser()
			if err != nil {
				return err
			}
			defer parser.Close()

			out, err := a.importSales.Execute(cmd.Context(), usecase.ImportSalesInput{
				Parser:      parser,
				FileName:    filepath.Base(file),
				OnDuplicate: policy,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the .csv or .xlsx file")
	cmd.Flags().StringVar(&onDuplicate, "on-duplicate", "skip", "skip or fail when a sale was already imported")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSyncLeadsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-leads",
		Short: "Pull new leads from the chatbot once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.syncLeads.Execute(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func newAliasesCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Manage the client alias table",
	}

	var file string
	load := &cobra.Command{
		Use:   "load",
		Short: "Upsert client aliases from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			// valida o arquivo antes de abrir o banco
			if _, err := config.LoadClientAliases(file); err != nil {
				return err
			}

			a, err := newApp(c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.loadAliasesFile(cmd.Context(), file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d aliases loaded\n", n)
			return nil
		},
	}
	load.Flags().StringVar(&file, "file", "", "YAML file with an aliases list")
	_ = load.MarkFlagRequired("file")

	cmd.AddCommand(load)
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
