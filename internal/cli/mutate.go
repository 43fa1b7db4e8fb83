package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/soyunomas/folderly/internal/api"
	"github.com/soyunomas/folderly/internal/entities"
	"github.com/spf13/cobra"
)

var (
	copyOverwrite bool
	moveOverwrite bool

	deleteRecursive bool
	deleteYes       bool
)

var copyCmd = &cobra.Command{
	Use:   "copy <source>... <destination>",
	Short: "Copy files or folders",
	Long: `Copy files or folders. Folders are copied with everything in them,
following symbolic links. Modes and modification times are kept.

With one source and a destination that is not an existing folder, the
source is copied to exactly that path. Otherwise every source is copied
into the destination folder under its own name.

An existing destination is only replaced with --overwrite.

Examples:
  folderly copy report.pdf Desktop
  folderly copy ~/photos/2024 /mnt/backup/photos-2024
  folderly copy a.txt b.txt c.txt Documents --overwrite`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transfer(cmd, entities.OpCopy, args, copyOverwrite)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <source>... <destination>",
	Short: "Move files or folders",
	Long: `Move files or folders. Moves across filesystems fall back to copy
and delete.

With one source and a destination that is not an existing folder, the
source is moved to exactly that path. Otherwise every source is moved
into the destination folder under its own name.

An existing destination is only replaced with --overwrite.

Examples:
  folderly move Downloads/invoice.pdf Documents
  folderly move notes.txt notes-old.txt`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transfer(cmd, entities.OpMove, args, moveOverwrite)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <target>...",
	Short: "Delete files or folders",
	Long: `Delete files or folders. Each target is confirmed separately unless
--yes is given; without a terminal nothing is deleted unless --yes is given.

A folder is only deleted when empty, or with --recursive. Symbolic links
are removed, never followed.

Examples:
  folderly delete Downloads/setup.exe
  folderly delete ~/tmp/build --recursive --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	copyCmd.Flags().BoolVarP(&copyOverwrite, "overwrite", "f", false, "replace an existing destination")
	moveCmd.Flags().BoolVarP(&moveOverwrite, "overwrite", "f", false, "replace an existing destination")

	deleteCmd.Flags().BoolVarP(&deleteRecursive, "recursive", "r", false, "delete folders with everything in them")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without asking")
}

func transfer(cmd *cobra.Command, op entities.Op, args []string, overwrite bool) error {
	ctx := cmd.Context()
	sources := make([]string, len(args)-1)
	for i, arg := range args[:len(args)-1] {
		sources[i] = named.Resolve(arg)
	}
	dest := named.Resolve(args[len(args)-1])
	m := newMutator(nil, 0)

	var results []entities.MutationResult
	if len(sources) == 1 && !isDir(dest) {
		req := entities.MutationRequest{Op: op, Source: sources[0], Destination: dest, Overwrite: overwrite}
		results = []entities.MutationResult{m.Apply(ctx, req)}
	} else if op == entities.OpCopy {
		results = m.CopyMany(ctx, sources, dest, overwrite)
	} else {
		results = m.MoveMany(ctx, sources, dest, overwrite)
	}
	return renderMutations(cmd, results)
}

func runDelete(cmd *cobra.Command, args []string) error {
	targets := make([]string, len(args))
	for i, arg := range args {
		targets[i] = named.Resolve(arg)
	}

	// One prompt at a time, in argument order.
	workers := 0
	if !deleteYes {
		workers = 1
	}
	confirm := promptConfirmer(cmd, deleteYes, deleteQuestion)
	results := newMutator(confirm, workers).DeleteMany(cmd.Context(), targets, deleteRecursive, true)
	return renderMutations(cmd, results)
}

// renderMutations prints the results and turns any failure into an error
// so the process exits non-zero.
func renderMutations(cmd *cobra.Command, results []entities.MutationResult) error {
	resp := api.NewMutationResponse(results)
	if err := render(cmd.OutOrStdout(), resp, func(w io.Writer) { printMutations(w, resp) }); err != nil {
		return err
	}
	if resp.Failed == 0 {
		return nil
	}
	if len(results) == 1 {
		r := results[0]
		return fmt.Errorf("%s %s: %s error: %w", r.Request.Op, r.Request.Source, r.Kind(), r.Err)
	}
	return fmt.Errorf("%d of %d operations failed", resp.Failed, len(results))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
