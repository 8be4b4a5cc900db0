package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mindmap/internal/tui"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage autosaved documents",
	Long: `Autosaved documents live in a SQLite database (see --db and the
autosave.database setting).`,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No stored documents.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIZE\tUPDATED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, humanize.Bytes(uint64(e.Size)), humanize.Time(e.UpdatedAt))
		}
		return w.Flush()
	},
}

var storeSaveCmd = &cobra.Command{
	Use:   "save <name> <file>",
	Short: "Import a .mind file into the store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		if _, err := parseDocument(args[1], raw); err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Save(args[0], raw); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %s (%s)\n", args[0], humanize.Bytes(uint64(len(raw))))
		return nil
	},
}

var storeCatCmd = &cobra.Command{
	Use:   "cat <name>",
	Short: "Print a stored document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		raw, err := st.Load(args[0])
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(raw)
		return err
	},
}

var storeOpenCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Open a stored document in the editor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEditor(cmd, tui.Options{Config: cfg, Name: args[0]})
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a stored document",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

func init() {
	storeCmd.AddCommand(storeListCmd, storeSaveCmd, storeCatCmd, storeOpenCmd, storeDeleteCmd)
	rootCmd.AddCommand(storeCmd)
}
