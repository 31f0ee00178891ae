package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/synapsechat/synapsechat/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a chat transcript",
	Long: `Export a session transcript in text, markdown, json or yaml format.

The output file defaults to synapse-chat-export-<timestamp>.<ext> in the
current directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		gw := newGateway()
		messages, ok := gw.FetchHistory(cmd.Context(), args[0])
		if !ok {
			return fmt.Errorf("could not fetch history for session %s", args[0])
		}

		out := exportOutput
		if out == "" {
			out = fmt.Sprintf("synapse-chat-export-%s.%s",
				time.Now().Format("2006-01-02T15-04-05"), exporter.Extension())
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		t := export.Transcript{SessionID: args[0], Messages: messages}
		if err := exporter.Export(t, f); err != nil {
			os.Remove(out)
			return err
		}

		fmt.Printf("Exported session %s to %s\n", args[0], out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "txt", "output format: txt, md, json, yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default synapse-chat-export-<timestamp>.<ext>)")
	rootCmd.AddCommand(exportCmd)
}
