package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/intent"
	"github.com/spf13/cobra"
)

var askYes bool

var askCmd = &cobra.Command{
	Use:   "ask <request>",
	Short: "Run a request written in plain words",
	Long: `Run a request written in plain words. Folders may be named roots
such as Desktop or Downloads, or quoted paths.

Examples:
  folderly ask "list files in Downloads"
  folderly ask "list folders in Documents recursively"
  folderly ask "list duplicates in Downloads"
  folderly ask "delete duplicates in Pictures"
  folderly ask 'move "~/Downloads/report.pdf" to Documents'
  folderly ask 'remove "~/Desktop/old notes.txt"'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askYes, "yes", "y", false, "do not ask before deleting")
}

// ErrNotUnderstood is returned for a request no command matches.
var ErrNotUnderstood = errors.New("request not understood")

func runAsk(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")
	command, err := intent.Parse(prompt, named)
	if err != nil {
		return err
	}
	logger.Debug("request parsed", "action", command.Action(), "prompt", prompt)
	return dispatch(cmd, command)
}

func dispatch(cmd *cobra.Command, command intent.Command) error {
	ctx := cmd.Context()
	defaults := detectFlags{recursive: true, prefilter: true}

	switch c := command.(type) {
	case intent.ListFiles:
		return listFolder(cmd, c.Folder, c.Recursive, false, "")
	case intent.ListFolders:
		return listFolder(cmd, c.Folder, c.Recursive, true, "")
	case intent.ListDuplicates:
		return findDuplicates(cmd, c.Folder, defaults, false, "")
	case intent.DeleteDuplicates:
		return deleteDuplicates(cmd, c.Folder, defaults, askYes)
	case intent.Copy:
		req := entities.MutationRequest{Op: entities.OpCopy, Source: c.Source, Destination: c.Destination}
		return renderMutations(cmd, []entities.MutationResult{newMutator(nil, 1).Apply(ctx, req)})
	case intent.Move:
		req := entities.MutationRequest{Op: entities.OpMove, Source: c.Source, Destination: c.Destination}
		return renderMutations(cmd, []entities.MutationResult{newMutator(nil, 1).Apply(ctx, req)})
	case intent.Delete:
		return deleteTarget(ctx, cmd, c.Target)
	case intent.Unknown:
		return fmt.Errorf("%w: %q (try list, find duplicates, copy, move or delete)", ErrNotUnderstood, c.Prompt)
	default:
		return fmt.Errorf("unhandled request %s", command.Action())
	}
}

// deleteTarget deletes a file or a whole folder after one confirmation.
func deleteTarget(ctx context.Context, cmd *cobra.Command, target string) error {
	req := entities.MutationRequest{Op: entities.OpDelete, Source: target, Recursive: isDir(target), Confirm: true}
	confirm := promptConfirmer(cmd, askYes, deleteQuestion)
	return renderMutations(cmd, []entities.MutationResult{newMutator(confirm, 1).Apply(ctx, req)})
}
