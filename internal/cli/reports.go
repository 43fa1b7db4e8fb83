package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/soyunomas/folderly/internal/report"
	"github.com/soyunomas/folderly/internal/utils"
	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse archived duplicate runs",
	Long: `Browse duplicate runs saved with "folderly dupes --save".

Examples:
  folderly reports
  folderly reports show 6f1c...
  folderly reports delete 6f1c...`,
	Args: cobra.NoArgs,
	RunE: runReportsList,
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one archived run with its groups",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsShow,
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsDelete,
}

func init() {
	reportsCmd.AddCommand(reportsShowCmd)
	reportsCmd.AddCommand(reportsDeleteCmd)
}

func runReportsList(cmd *cobra.Command, args []string) error {
	archive, err := openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	runs, err := archive.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if runs == nil {
		runs = []report.Run{}
	}
	return render(cmd.OutOrStdout(), runs, func(w io.Writer) {
		if len(runs) == 0 {
			fmt.Fprintln(w, defaultTheme.hintStyle().Render("No saved runs. Save one with: folderly dupes <folder> --save"))
			return
		}
		for _, r := range runs {
			fmt.Fprintf(w, "%s  %-14s %-7s %s  %s\n",
				defaultTheme.keyStyle().Render(r.ID),
				humanize.Time(r.CreatedAt),
				r.Mode,
				r.Root,
				defaultTheme.hintStyle().Render(fmt.Sprintf("%d groups, %s reclaimable",
					r.Summary.Groups, utils.ByteCountDecimal(r.Summary.ReclaimableSize))))
		}
	})
}

func runReportsShow(cmd *cobra.Command, args []string) error {
	archive, err := openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	run, err := archive.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get run %s: %w", args[0], err)
	}
	return render(cmd.OutOrStdout(), run, func(w io.Writer) {
		by := run.Mode
		if run.Algorithm != "" {
			by += " (" + run.Algorithm + ")"
		}
		fmt.Fprintln(w, defaultTheme.headingStyle().Render(fmt.Sprintf("Run %s: %s by %s", run.ID, run.Root, by)))
		fmt.Fprintln(w, defaultTheme.hintStyle().Render(run.CreatedAt.Local().Format("2006-01-02 15:04:05")))
		for _, g := range run.Groups {
			fmt.Fprintf(w, "\n  %s\n", defaultTheme.keyStyle().Render(g.Key))
			for _, m := range g.Members {
				fmt.Fprintf(w, "    %-9s %s\n", utils.ByteCountDecimal(m.Size), m.Path)
			}
		}
		fmt.Fprintln(w)
		printSummary(w, run.Summary)
	})
}

func runReportsDelete(cmd *cobra.Command, args []string) error {
	archive, err := openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	if err := archive.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete run %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
	return nil
}
