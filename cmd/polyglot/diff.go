package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ZaguanLabs/polyglot"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "diff <new> <previous>",
		Short: "Compare two versions of a document and show which fragments need translation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newPath, oldPath := args[0], args[1]

			newUnits, _, err := extractUnits(newPath)
			if err != nil {
				return fmt.Errorf("parsing new version: %w", err)
			}
			oldUnits, _, err := extractUnits(oldPath)
			if err != nil {
				return fmt.Errorf("parsing previous version: %w", err)
			}

			diff := polyglot.DiffUnits(oldUnits, newUnits)
			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeDiffJSON(out, newPath, oldPath, diff)
			}
			writeDiff(out, newPath, oldPath, diff)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func writeDiff(w io.Writer, newPath, oldPath string, diff *polyglot.DiffResult) {
	stats := diff.Stats()

	fmt.Fprintf(w, "Diff: %s vs %s\n\n", filepath.Base(newPath), filepath.Base(oldPath))
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(w, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(w, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(w, "  Modified:  %d\n", stats.Modified)
	fmt.Fprintf(w, "\n")

	if !diff.HasChanges() {
		fmt.Fprintf(w, "No changes detected. All translations are up to date.\n")
		return
	}

	fmt.Fprintf(w, "Needs translation: %d fragments\n\n", len(diff.NeedsTranslation()))

	if len(diff.Added) > 0 {
		fmt.Fprintf(w, "Added:\n")
		for _, u := range diff.Added {
			fmt.Fprintf(w, "  + %s %q\n", u.ID, truncate(u.Text, 50))
		}
		fmt.Fprintf(w, "\n")
	}

	if len(diff.Modified) > 0 {
		fmt.Fprintf(w, "Modified:\n")
		for _, m := range diff.Modified {
			fmt.Fprintf(w, "  ~ %s %q -> %q\n", m.New.ID, truncate(m.Old.Text, 30), truncate(m.New.Text, 30))
		}
		fmt.Fprintf(w, "\n")
	}

	if len(diff.Removed) > 0 {
		fmt.Fprintf(w, "Removed:\n")
		for _, u := range diff.Removed {
			fmt.Fprintf(w, "  - %s %q\n", u.ID, truncate(u.Text, 50))
		}
		fmt.Fprintf(w, "\n")
	}
}

type diffStatsJSON struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
	Modified  int `json:"modified"`
}

type modifiedJSON struct {
	ID  string `json:"id"`
	Old string `json:"old"`
	New string `json:"new"`
}

type diffOutput struct {
	InputFile        string         `json:"input_file"`
	PreviousFile     string         `json:"previous_file"`
	Stats            diffStatsJSON  `json:"stats"`
	NeedsTranslation []fragmentJSON `json:"needs_translation"`
	Added            []fragmentJSON `json:"added,omitempty"`
	Removed          []fragmentJSON `json:"removed,omitempty"`
	Modified         []modifiedJSON `json:"modified,omitempty"`
}

func writeDiffJSON(w io.Writer, newPath, oldPath string, diff *polyglot.DiffResult) error {
	stats := diff.Stats()
	out := diffOutput{
		InputFile:        filepath.Base(newPath),
		PreviousFile:     filepath.Base(oldPath),
		Stats:            diffStatsJSON(stats),
		NeedsTranslation: fragments(diff.NeedsTranslation()),
		Added:            fragments(diff.Added),
		Removed:          fragments(diff.Removed),
	}
	for _, m := range diff.Modified {
		out.Modified = append(out.Modified, modifiedJSON{ID: m.New.ID, Old: m.Old.Text, New: m.New.Text})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func fragments(units []polyglot.TranslatableUnit) []fragmentJSON {
	out := make([]fragmentJSON, 0, len(units))
	for _, u := range units {
		out = append(out, fragmentJSON{ID: u.ID, Text: u.Text})
	}
	return out
}
