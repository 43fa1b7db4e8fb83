package cli

import (
	"io"

	"github.com/soyunomas/folderly/internal/api"
	"github.com/spf13/cobra"
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List the named roots",
	Long: `List the named roots that exist under the home directory.

A named root can be used anywhere a folder is expected, case-insensitively:
  folderly list downloads`,
	Args: cobra.NoArgs,
	RunE: runRoots,
}

func runRoots(cmd *cobra.Command, args []string) error {
	entries := make([]api.RootEntry, 0, named.Len())
	for _, name := range named.Names() {
		path, _ := named.Lookup(name)
		entries = append(entries, api.RootEntry{Name: name, Path: path})
	}
	return render(cmd.OutOrStdout(), entries, func(w io.Writer) { printRoots(w, entries) })
}
