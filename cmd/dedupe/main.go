package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// ledger-dedupe is the offline companion of the blacklist ledger: it
// rewrites a ledger CSV keeping only the first row per URL. The live
// pipeline never deduplicates; this tool is run by hand between
// evaluation runs.

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		csvFile string
		outFile string
	)

	cmd := &cobra.Command{
		Use:          "ledger-dedupe",
		Short:        "Rewrite a ledger CSV keeping the first row per URL",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outFile == "" {
				outFile = csvFile
			}
			return dedupe(csvFile, outFile)
		},
	}

	cmd.Flags().StringVar(&csvFile, "csv-file", "", "path to the ledger CSV")
	cmd.Flags().StringVar(&outFile, "output", "", "output path (default: rewrite in place)")
	_ = cmd.MarkFlagRequired("csv-file")
	return cmd
}

func dedupe(inPath, outPath string) error {
	records, err := readAll(inPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s is empty", inPath)
	}

	header := records[0]
	urlIdx := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "url") {
			urlIdx = i
			break
		}
	}
	if urlIdx < 0 {
		return errors.New("CSV has no url column")
	}

	seen := make(map[string]struct{}, len(records))
	out := records[:1]
	for _, row := range records[1:] {
		if urlIdx >= len(row) {
			continue
		}
		url := strings.TrimSpace(row[urlIdx])
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, row)
	}

	if err := writeAll(outPath, out); err != nil {
		return err
	}

	fmt.Printf("Rows kept: %d (of %d), unique URLs: %d\n", len(out)-1, len(records)-1, len(seen))
	return nil
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).ReadAll()
}

// writeAll writes via a temp file in the destination directory so an
// in-place rewrite cannot truncate the ledger on failure.
func writeAll(path string, records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dedupe-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
