package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/soyunomas/folderly/internal/api"
	"github.com/soyunomas/folderly/internal/engine"
	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/hasher"
	"github.com/soyunomas/folderly/internal/mutator"
	"github.com/soyunomas/folderly/internal/report"
	"github.com/soyunomas/folderly/internal/utils"
	"github.com/spf13/cobra"
)

// detectFlags are shared by dupes and dedupe.
type detectFlags struct {
	by        string
	algorithm string
	keep      string
	suffix    string
	recursive bool
	prefilter bool
}

func (f *detectFlags) register(cmd *cobra.Command, withBy bool) {
	if withBy {
		cmd.Flags().StringVar(&f.by, "by", "digest", "group by name, size or digest")
	}
	names := make([]string, 0, len(hasher.Algorithms()))
	for _, alg := range hasher.Algorithms() {
		names = append(names, string(alg))
	}
	cmd.Flags().StringVar(&f.algorithm, "algorithm", "", "digest algorithm: "+strings.Join(names, ", ")+" (default $FOLDERLY_ALGORITHM)")
	cmd.Flags().StringVar(&f.keep, "keep", "first", "which copy is kept: first, shortest, longest, oldest or newest")
	cmd.Flags().StringVarP(&f.suffix, "suffix", "s", "", "only files ending in this extension")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", true, "descend into subfolders")
	cmd.Flags().BoolVar(&f.prefilter, "prefilter", true, "narrow by size and a prefix digest before hashing whole files")
}

var (
	dupesFlags  detectFlags
	dupesSave   bool
	dupesScript string

	dedupeFlags detectFlags
	dedupeYes   bool
)

var dupesCmd = &cobra.Command{
	Use:   "dupes <folder>",
	Short: "Find duplicate files",
	Long: `Find files under a folder that share a name, a size or identical content.

Only content digests identify true duplicates; name and size groupings are
cheap hints. The first file of each group is the one dedupe keeps.

Examples:
  folderly dupes Downloads
  folderly dupes ~/photos --by size
  folderly dupes Documents --algorithm xxhash64 --keep shortest --save
  folderly dupes Downloads --script cleanup.sh`,
	Args: cobra.ExactArgs(1),
	RunE: runDupes,
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <folder>",
	Short: "Delete duplicate files, keeping one copy of each",
	Long: `Delete every file under a folder whose content duplicates another,
keeping one copy per group. Asks once for the whole batch unless --yes
is given; without a terminal nothing is deleted unless --yes is given.

Examples:
  folderly dedupe Downloads
  folderly dedupe ~/photos --keep oldest --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDedupe,
}

func init() {
	dupesFlags.register(dupesCmd, true)
	dupesCmd.Flags().BoolVar(&dupesSave, "save", false, "save the run to the archive")
	dupesCmd.Flags().StringVar(&dupesScript, "script", "", "write a shell script that removes the redundant copies")

	dedupeFlags.register(dedupeCmd, false)
	dedupeCmd.Flags().BoolVarP(&dedupeYes, "yes", "y", false, "delete without asking")
}

// detect resolves folder and runs one detection.
func detect(ctx context.Context, folder string, f detectFlags) (engine.Result, error) {
	mode, err := engine.ParseMode(f.by)
	if err != nil {
		return engine.Result{}, err
	}
	keep, err := engine.ParseKeepStrategy(f.keep)
	if err != nil {
		return engine.Result{}, err
	}
	opts, err := detectOptions(f)
	if err != nil {
		return engine.Result{}, err
	}
	res, err := engine.New(named.Resolve(folder), opts).Detect(ctx, mode, keep)
	if err != nil {
		return engine.Result{}, fmt.Errorf("find duplicates in %s: %w", folder, err)
	}
	return res, nil
}

func runDupes(cmd *cobra.Command, args []string) error {
	return findDuplicates(cmd, args[0], dupesFlags, dupesSave, dupesScript)
}

// findDuplicates is shared with the ask command.
func findDuplicates(cmd *cobra.Command, folder string, f detectFlags, save bool, script string) error {
	ctx := cmd.Context()
	res, err := detect(ctx, folder, f)
	if err != nil {
		return err
	}
	resp := api.NewDuplicatesResponse(res)

	if save {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()
		if resp.RunID, err = archive.Save(ctx, report.NewRun(res)); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		logger.Info("run saved", "id", resp.RunID, "archive", archive.Path())
	}
	if script != "" {
		if err := writeScript(script, res); err != nil {
			return fmt.Errorf("write script: %w", err)
		}
		logger.Info("removal script written", "path", script, "files", res.Summary.Redundant)
	}

	return render(cmd.OutOrStdout(), resp, func(w io.Writer) { printDuplicates(w, resp) })
}

// writeScript writes a POSIX shell script removing every redundant copy,
// one commented block per group.
func writeScript(path string, res engine.Result) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "#!/bin/sh\n")
	fmt.Fprintf(w, "# Generated by folderly: duplicates in %s by %s\n", res.Root, res.Mode)
	fmt.Fprintf(w, "set -e\n\n")
	for _, g := range res.Groups {
		redundant := g.Redundant()
		if len(redundant) == 0 {
			continue
		}
		fmt.Fprintf(w, "# %s\n", g.Key)
		fmt.Fprintf(w, "# keep: %s\n", shellQuote(g.Keeper().Path))
		for _, file := range redundant {
			fmt.Fprintf(w, "rm -v -- %s\n", shellQuote(file.Path))
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// shellQuote single-quotes s for sh.
func shellQuote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, `'\''`...)
			continue
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}

func runDedupe(cmd *cobra.Command, args []string) error {
	return deleteDuplicates(cmd, args[0], dedupeFlags, dedupeYes)
}

// deleteDuplicates removes every redundant copy found by a digest
// grouping. Name and size groupings never feed a delete.
func deleteDuplicates(cmd *cobra.Command, folder string, f detectFlags, yes bool) error {
	f.by = entities.KeyDigest.String()
	ctx := cmd.Context()
	res, err := detect(ctx, folder, f)
	if err != nil {
		return err
	}

	redundant := res.Redundant()
	if len(redundant) == 0 {
		return render(cmd.OutOrStdout(), api.NewMutationResponse(nil), func(w io.Writer) {
			fmt.Fprintln(w, defaultTheme.successStyle().Render("No duplicates found."))
		})
	}

	question := fmt.Sprintf("Delete %d redundant files (%s) from %d groups?",
		len(redundant), utils.ByteCountDecimal(res.Summary.ReclaimableSize), res.Summary.Groups)
	if format == "text" {
		printSummary(cmd.OutOrStdout(), res.Summary)
	}
	confirm := mutator.Once(promptConfirmer(cmd, yes, func(entities.MutationRequest) string { return question }))

	results := newMutator(confirm, 0).DeleteMany(ctx, redundant, false, true)
	resp := api.NewMutationResponse(results)
	if err := render(cmd.OutOrStdout(), resp, func(w io.Writer) { printMutations(w, resp) }); err != nil {
		return err
	}
	if resp.Failed > 0 {
		return errors.New("some duplicates could not be deleted")
	}
	return nil
}
