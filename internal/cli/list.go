package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/soyunomas/folderly/internal/api"
	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/scanner"
	"github.com/spf13/cobra"
)

var (
	listRecursive bool
	listDirs      bool
	listAll       bool
	listSuffix    string
	listSince     time.Duration
)

var listCmd = &cobra.Command{
	Use:   "list <folder>",
	Short: "List the files or folders in a folder",
	Long: `List the files in a folder, its folders with --dirs, or both with --all.

Examples:
  folderly list Downloads
  folderly list ~/projects --recursive --suffix .go
  folderly list Documents --dirs
  folderly list Downloads --since 24h`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listRecursive, "recursive", "r", false, "descend into subfolders")
	listCmd.Flags().BoolVarP(&listDirs, "dirs", "d", false, "list folders instead of files")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "list files and folders")
	listCmd.Flags().StringVarP(&listSuffix, "suffix", "s", "", "only files ending in this extension, e.g. .pdf")
	listCmd.Flags().DurationVar(&listSince, "since", 0, "only files modified within this long, e.g. 72h")
}

func runList(cmd *cobra.Command, args []string) error {
	if listSince > 0 && (listDirs || listAll) {
		return errors.New("--since only applies to files")
	}
	if listDirs && listAll {
		return errors.New("--dirs and --all are mutually exclusive")
	}

	root := named.Resolve(args[0])
	s := scanner.New(scanner.Config{
		Recursive: listRecursive,
		Suffix:    listSuffix,
		Workers:   cfg.Workers,
		Logger:    logger,
	})

	var (
		entries []*entities.FileEntry
		err     error
	)
	switch {
	case listAll:
		entries, err = s.All(cmd.Context(), root)
	case listSince > 0:
		entries, err = s.ModifiedBetween(cmd.Context(), root, time.Now().Add(-listSince), time.Time{})
	default:
		return listFolder(cmd, args[0], listRecursive, listDirs, listSuffix)
	}
	if err != nil {
		return fmt.Errorf("list %s: %w", args[0], err)
	}
	return renderFiles(cmd, root, entries)
}

// listFolder lists files, or folders with dirs set. The ask command uses
// it too.
func listFolder(cmd *cobra.Command, folder string, recursive, dirs bool, suffix string) error {
	root := named.Resolve(folder)
	s := scanner.New(scanner.Config{
		Recursive: recursive,
		Suffix:    suffix,
		Workers:   cfg.Workers,
		Logger:    logger,
	})

	var (
		entries []*entities.FileEntry
		err     error
	)
	if dirs {
		entries, err = s.Directories(cmd.Context(), root)
	} else {
		entries, err = s.Files(cmd.Context(), root)
	}
	if err != nil {
		return fmt.Errorf("list %s: %w", folder, err)
	}
	return renderFiles(cmd, root, entries)
}

func renderFiles(cmd *cobra.Command, root string, entries []*entities.FileEntry) error {
	resp := api.NewFilesResponse(root, entries)
	return render(cmd.OutOrStdout(), resp, func(w io.Writer) { printFiles(w, resp) })
}
