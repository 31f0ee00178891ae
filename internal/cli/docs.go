package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage the document library",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		gw := newGateway()
		docs := gw.FetchDocuments(cmd.Context(), cfg.UserID)
		if len(docs) == 0 {
			fmt.Println("No documents found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFILENAME\tSIZE\tTYPE\tUPLOADED")
		for _, d := range docs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				d.ID, d.Filename, formatSize(d.FileSize), d.MimeType,
				d.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document to the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		gw := newGateway()
		resp := gw.UploadDocument(cmd.Context(), f, filepath.Base(args[0]), cfg.UserID)
		if !resp.Success {
			return fmt.Errorf("upload failed: %s", resp.Message)
		}
		fmt.Println(resp.Message)
		return nil
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Delete a document from the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw := newGateway()
		if !gw.DeleteDocument(cmd.Context(), args[0], cfg.UserID) {
			return fmt.Errorf("failed to delete document %s", args[0])
		}
		fmt.Printf("Deleted document %s\n", args[0])
		return nil
	},
}

func init() {
	docsCmd.AddCommand(docsListCmd, docsUploadCmd, docsDeleteCmd)
	rootCmd.AddCommand(docsCmd)
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
