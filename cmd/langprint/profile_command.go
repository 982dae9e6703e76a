package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/langprint/internal/domain/bigram"
)

type profileOptions struct {
	json   bool
	counts bool
	top    int
}

func newProfileCommand(ctx *commandContext) *cobra.Command {
	var opts profileOptions
	cmd := &cobra.Command{
		Use:   "profile [file|-]",
		Short: "Build a profile from a file or stdin",
		Long: "Build the bigram profile of a text. Reads stdin when no file is given or the file is \"-\".\n" +
			"Prints the non-zero slots, most frequent first.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd, ctx, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the full 729-slot vector as JSON")
	cmd.Flags().BoolVar(&opts.counts, "counts", false, "Show raw pair counts next to frequencies")
	cmd.Flags().IntVar(&opts.top, "top", 0, "Show only the N most frequent bigrams (0 = all)")
	return cmd
}

type profileJSON struct {
	Source     string    `json:"source"`
	Dimensions int       `json:"dimensions"`
	Length     int       `json:"length"`
	Pairs      int       `json:"pairs"`
	Profile    []float64 `json:"profile"`
}

func runProfile(cmd *cobra.Command, cc *commandContext, args []string, opts profileOptions) error {
	source := "-"
	if len(args) == 1 {
		source = args[0]
	}
	text, err := readInput(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}

	svc, err := cc.profileService(nil)
	if err != nil {
		return err
	}
	built, err := svc.Build(cmd.Context(), text)
	if err != nil {
		return err
	}

	if opts.json {
		return writeJSON(cmd, profileJSON{
			Source:     source,
			Dimensions: bigram.Slots,
			Length:     built.Length,
			Pairs:      built.Pairs(),
			Profile:    built.Profile.Slice(),
		})
	}

	counts, _ := svc.Counts(text)
	slots := built.Profile.NonZero()
	sort.SliceStable(slots, func(i, j int) bool { return built.Profile[slots[i]] > built.Profile[slots[j]] })
	if opts.top > 0 && len(slots) > opts.top {
		slots = slots[:opts.top]
	}

	alphabet := svc.Alphabet()
	headers := []string{"Slot", "Bigram", "Frequency"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight}
	if opts.counts {
		headers = append(headers, "Count")
		aligns = append(aligns, alignRight)
	}
	rows := make([][]string, 0, len(slots))
	for _, slot := range slots {
		first, second := bigram.SplitIndex(slot)
		row := []string{
			strconv.Itoa(slot),
			alphabet.Label(first) + alphabet.Label(second),
			strconv.FormatFloat(built.Profile[slot], 'f', 6, 64),
		}
		if opts.counts {
			row = append(row, strconv.Itoa(counts[slot]))
		}
		rows = append(rows, row)
	}

	out := cmd.OutOrStdout()
	if isTerminal(out) {
		fmt.Fprintf(out, "%s: %d characters, %d pairs, %d distinct bigrams\n",
			source, built.Length, built.Pairs(), len(built.Profile.NonZero()))
	}
	return writeRows(out, headers, rows, aligns)
}

func readInput(stdin io.Reader, source string) (string, error) {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(filepath.Clean(source))
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}
	return string(data), nil
}
