package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/soyunomas/folderly/internal/api"
	"github.com/soyunomas/folderly/internal/engine"
	"github.com/soyunomas/folderly/internal/utils"
	"gopkg.in/yaml.v3"
)

// Theme defines colors for text output.
type Theme struct {
	Heading lipgloss.Color
	Key     lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Heading: lipgloss.Color("#5FAFD7"), // light blue
	Key:     lipgloss.Color("#D7AF5F"), // amber
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Warning: lipgloss.Color("#FFAF00"), // orange
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) headingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Heading).Bold(true)
}

func (t Theme) keyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Key)
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) warningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Warning)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// render writes v as JSON or YAML, or calls text for the text format.
func render(w io.Writer, v any, text func(io.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(w)
		return nil
	}
}

func printRoots(w io.Writer, entries []api.RootEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, defaultTheme.hintStyle().Render("No named roots exist under the home directory."))
		return
	}
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}
	name := defaultTheme.keyStyle().Width(width + 2)
	for _, e := range entries {
		fmt.Fprintf(w, "%s%s\n", name.Render(e.Name), e.Path)
	}
}

func printFiles(w io.Writer, resp api.FilesResponse) {
	fmt.Fprintln(w, defaultTheme.headingStyle().Render(resp.Root))
	if len(resp.Entries) == 0 {
		fmt.Fprintln(w, defaultTheme.hintStyle().Render("  (empty)"))
		return
	}
	var total int64
	for _, e := range resp.Entries {
		size := ""
		if e.Kind == "file" {
			size = utils.ByteCountDecimal(e.Size)
			total += e.Size
		}
		modified := ""
		if e.Modified != 0 {
			modified = humanize.Time(time.Unix(e.Modified, 0))
		}
		link := ""
		if e.IsSymlink {
			link = defaultTheme.hintStyle().Render(" -> symlink")
		}
		fmt.Fprintf(w, "  %-9s %-15s %s%s\n", size, modified, e.Path, link)
	}
	fmt.Fprintf(w, "\n%s entries, %s\n", humanize.Comma(int64(len(resp.Entries))), utils.ByteCountDecimal(total))
}

func printDuplicates(w io.Writer, resp api.DuplicatesResponse) {
	by := resp.By
	if resp.Algorithm != "" {
		by += " (" + resp.Algorithm + ")"
	}
	fmt.Fprintln(w, defaultTheme.headingStyle().Render(fmt.Sprintf("Duplicates in %s by %s", resp.Root, by)))
	if len(resp.Groups) == 0 {
		fmt.Fprintln(w, defaultTheme.successStyle().Render("No duplicates found."))
		return
	}
	for _, g := range resp.Groups {
		fmt.Fprintf(w, "\n  %s %s\n", defaultTheme.keyStyle().Render(g.Key),
			defaultTheme.hintStyle().Render(fmt.Sprintf("(%d files)", len(g.Files))))
		for i, f := range g.Files {
			role := "extra"
			if i == 0 {
				role = "keep "
			}
			fmt.Fprintf(w, "    %s %-9s %s\n", role, utils.ByteCountDecimal(f.Size), f.Path)
		}
	}
	fmt.Fprintln(w)
	printSummary(w, resp.Summary)
	if resp.RunID != "" {
		fmt.Fprintln(w, defaultTheme.hintStyle().Render("Saved as run "+resp.RunID))
	}
}

func printSummary(w io.Writer, s engine.Summary) {
	fmt.Fprintf(w, "%s groups, %s files, %s redundant, %s reclaimable\n",
		humanize.Comma(int64(s.Groups)),
		humanize.Comma(int64(s.Files)),
		humanize.Comma(int64(s.Redundant)),
		utils.ByteCountDecimal(s.ReclaimableSize))
}

func printMutations(w io.Writer, resp api.MutationResponse) {
	for _, r := range resp.Results {
		target := r.Source
		if r.Destination != "" {
			target += " -> " + r.Destination
		}
		switch {
		case r.Declined:
			fmt.Fprintf(w, "%s %s %s\n", defaultTheme.warningStyle().Render("skip"), r.Op, target)
		case r.Succeeded:
			fmt.Fprintf(w, "%s   %s %s\n", defaultTheme.successStyle().Render("ok"), r.Op, target)
		default:
			fmt.Fprintf(w, "%s %s %s: %s\n", defaultTheme.errorStyle().Render("fail"), r.Op, target,
				defaultTheme.hintStyle().Render(r.Kind+": "+r.Reason))
		}
	}
	fmt.Fprintf(w, "\n%d succeeded, %d failed, %d declined\n", resp.Succeeded, resp.Failed, resp.Declined)
}
