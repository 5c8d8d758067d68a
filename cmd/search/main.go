// Command search answers queries against a previously built index and
// writes ranked results to an output file.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	blaze "github.com/SimJunYou/CS3245-HW4"
)

func main() {
	var dictPath, postingsPath, queryPath, outPath, configPath string
	var ranCommand bool

	root := &cobra.Command{
		Use:          "search",
		Short:        "Answer a query against a built index",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ranCommand = true
			return runSearch(dictPath, postingsPath, queryPath, outPath, configPath)
		},
	}
	root.Flags().StringVarP(&dictPath, "dictionary", "d", "", "path to the dictionary file")
	root.Flags().StringVarP(&postingsPath, "postings", "p", "", "path to the postings file")
	root.Flags().StringVarP(&queryPath, "queries", "q", "", "path to the query file")
	root.Flags().StringVarP(&outPath, "output", "o", "", "path to write results")
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to a JSON config file")
	root.MarkFlagRequired("dictionary")
	root.MarkFlagRequired("postings")
	root.MarkFlagRequired("queries")
	root.MarkFlagRequired("output")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if !ranCommand {
			// cobra rejected the invocation itself (unknown flag, missing
			// required flag, bad syntax) before RunE ever ran.
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func runSearch(dictPath, postingsPath, queryPath, outPath, configPath string) error {
	cfg, err := blaze.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := blaze.LoadStore(blaze.Paths{
		Postings:   postingsPath,
		Dictionary: dictPath,
		Lengths:    cfg.LengthsFile,
		Champion:   cfg.ChampionFile,
	})
	if err != nil {
		return fmt.Errorf("loading store: %w", err)
	}

	var thesaurus *blaze.Thesaurus
	if cfg.RunQueryExpansion {
		thesaurus, err = blaze.LoadThesaurus(cfg.ThesaurusFile)
		if err != nil {
			slog.Warn("query expansion enabled but thesaurus failed to load, disabling", "err", err)
			cfg.RunQueryExpansion = false
		}
	}

	query, relevant, err := readQueryFile(queryPath)
	if err != nil {
		return fmt.Errorf("reading query file: %w", err)
	}

	engine := blaze.NewQueryEngine(store, thesaurus, cfg)
	results, err := engine.Run(query, relevant)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}

	return writeResults(outPath, results)
}

// readQueryFile parses the query file format from §6: first line is the
// query text, subsequent non-empty lines are relevant DocIds.
func readQueryFile(path string) (string, []blaze.DocId, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", nil, fmt.Errorf("empty query file")
	}
	query := scanner.Text()

	var relevant []blaze.DocId
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		n, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			continue
		}
		relevant = append(relevant, blaze.DocId(n))
	}
	return query, relevant, scanner.Err()
}

func writeResults(path string, results []blaze.DocId) error {
	parts := make([]string, len(results))
	for i, d := range results {
		parts[i] = strconv.FormatUint(uint64(d), 10)
	}
	return os.WriteFile(path, []byte(strings.Join(parts, " ")), 0o644)
}
