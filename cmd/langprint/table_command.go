package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/langprint/internal/export"
)

func newTableCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Inspect and export the stored profile table",
	}
	cmd.AddCommand(newTableListCommand(ctx))
	cmd.AddCommand(newTableExportCommand(ctx))
	return cmd
}

type languageRow struct {
	Tag          string `json:"tag"`
	Base         string `json:"base"`
	Source       string `json:"source"`
	SampleLength int    `json:"sample_length"`
	RunID        string `json:"run_id,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

func newTableListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored language profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			svc, err := ctx.profileService(store)
			if err != nil {
				return err
			}
			profiles, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				items := make([]languageRow, 0, len(profiles))
				for _, lp := range profiles {
					items = append(items, languageRow{
						Tag: lp.Tag().String(), Base: lp.Tag().Base(), Source: lp.Source(),
						SampleLength: lp.SampleLength(), RunID: lp.RunID(), CreatedAt: lp.CreatedAt(),
					})
				}
				return writeJSON(cmd, items)
			}

			rows := make([][]string, 0, len(profiles))
			for _, lp := range profiles {
				rows = append(rows, []string{
					lp.Tag().String(), lp.Tag().Base(), strconv.Itoa(lp.SampleLength()), lp.Source(),
				})
			}
			return writeRows(cmd.OutOrStdout(), []string{"Tag", "Base", "Chars", "Source"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newTableExportCommand(ctx *commandContext) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored table for a classifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			store, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			svc, err := ctx.profileService(store)
			if err != nil {
				return err
			}
			table, err := svc.Table(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				return export.Encode(cmd.OutOrStdout(), table, f)
			}
			return writeTableFile(out, table, f)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.JSON), "Table format: json, js, yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}
