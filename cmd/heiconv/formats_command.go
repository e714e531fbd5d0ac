package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"heiconv/internal/codec"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List supported target formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]table.Row, 0, 2)
			for _, format := range []codec.Format{codec.FormatHEIC, codec.FormatJPEG} {
				rows = append(rows, table.Row{
					format.String(),
					format.Extension(),
					strings.Join(format.InputExtensions(), " "),
				})
			}
			rendered := renderTable(table.Row{"Format", "Output", "Accepted inputs"}, rows)
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}
