package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ZaguanLabs/polyglot"
	"github.com/ZaguanLabs/polyglot/pipeline"
	"github.com/ZaguanLabs/polyglot/processor"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Show the fragments that would be translated, without calling a backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			units, format, err := extractUnits(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeExtractJSON(out, args[0], format, units)
			}
			writeExtract(out, args[0], format, units)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// extractUnits reads path and runs the processor selected by its extension.
func extractUnits(path string) ([]polyglot.TranslatableUnit, polyglot.Format, error) {
	proc, err := processor.ForPath(path)
	if err != nil {
		return nil, polyglot.FormatUnknown, err
	}
	content, err := pipeline.ReadDocument(path)
	if err != nil {
		return nil, proc.Format(), fmt.Errorf("reading file: %w", err)
	}
	units, err := proc.Extract(content)
	if err != nil {
		return nil, proc.Format(), fmt.Errorf("extracting text: %w", err)
	}
	return units, proc.Format(), nil
}

func writeExtract(w io.Writer, path string, format polyglot.Format, units []polyglot.TranslatableUnit) {
	fmt.Fprintf(w, "Extract: %s (%s)\n", filepath.Base(path), format)
	fmt.Fprintf(w, "Found %d translatable fragments:\n\n", len(units))

	for i, u := range units {
		fmt.Fprintf(w, "%3d. %-20s %q\n", i+1, u.ID, truncate(u.Text, 60))
	}
}

type extractOutput struct {
	InputFile string         `json:"input_file"`
	Format    string         `json:"format"`
	Count     int            `json:"count"`
	Fragments []fragmentJSON `json:"fragments"`
}

type fragmentJSON struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func writeExtractJSON(w io.Writer, path string, format polyglot.Format, units []polyglot.TranslatableUnit) error {
	out := extractOutput{
		InputFile: filepath.Base(path),
		Format:    format.String(),
		Count:     len(units),
		Fragments: make([]fragmentJSON, len(units)),
	}
	for i, u := range units {
		out.Fragments[i] = fragmentJSON{ID: u.ID, Text: u.Text}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// truncate shortens text to at most limit runes.
func truncate(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit-3]) + "..."
}
