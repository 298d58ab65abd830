package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/woolywalk/internal/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write progress to a JSON backup or CSV file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Replace all progress with a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json or csv")
}

func runExport(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	doc := env.sess.Document()
	var path string
	switch exportFormat {
	case "json":
		path = export.DefaultBackupName
		if len(args) > 0 {
			path = args[0]
		}
		err = export.ToJSON(doc, path)
	case "csv":
		path = export.DefaultCSVName
		if len(args) > 0 {
			path = args[0]
		}
		err = export.ToCSV(doc, env.sess.Roster(), env.sess.Days(), path)
	default:
		return fmt.Errorf("unknown format %q: want json or csv", exportFormat)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	doc, err := export.ReadBackup(args[0], env.sess.Roster(), env.sess.Days())
	if err != nil {
		return fmt.Errorf("import failed, please make sure you selected a valid backup file: %w", err)
	}
	if err := env.sess.Replace(doc); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported progress for %d walkers from %s\n", len(doc.Participants), args[0])
	return nil
}
