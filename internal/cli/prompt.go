package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/mutator"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// interactive reports whether in can answer prompts. Standard input that
// is not a terminal cannot; other readers are assumed to.
func interactive(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return true
	}
	return term.IsTerminal(int(f.Fd()))
}

// promptConfirmer asks question on the command's error stream and reads a y/N
// answer from its input. With yes set every request is approved; without
// an interactive input every request is declined.
func promptConfirmer(cmd *cobra.Command, yes bool, question func(entities.MutationRequest) string) mutator.Confirmer {
	if yes {
		return mutator.Decision(true)
	}
	in := cmd.InOrStdin()
	if !interactive(in) {
		logger.Warn("no terminal to confirm on, declining; pass --yes to proceed")
		return mutator.Decision(false)
	}

	reader := bufio.NewReader(in)
	out := cmd.ErrOrStderr()
	var mu sync.Mutex
	return mutator.ConfirmFunc(func(ctx context.Context, req entities.MutationRequest) bool {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return false
		}
		fmt.Fprintf(out, "%s [y/N]: ", question(req))
		response, err := reader.ReadString('\n')
		if err != nil && response == "" {
			fmt.Fprintln(out)
			return false
		}
		response = strings.TrimSpace(strings.ToLower(response))
		return response == "y" || response == "yes"
	})
}

func deleteQuestion(req entities.MutationRequest) string {
	if req.Recursive {
		return fmt.Sprintf("Delete %s and everything in it?", req.Source)
	}
	return fmt.Sprintf("Delete %s?", req.Source)
}
