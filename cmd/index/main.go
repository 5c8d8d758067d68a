// Command index builds a postings file, dictionary, lengths and champion
// files from a CSV corpus of legal case documents.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	blaze "github.com/SimJunYou/CS3245-HW4"
)

func main() {
	var csvPath, dictOut, postingsOut, configPath string
	var ranCommand bool

	root := &cobra.Command{
		Use:          "index",
		Short:        "Build an inverted index over a CSV corpus of legal cases",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ranCommand = true
			return runIndex(csvPath, dictOut, postingsOut, configPath)
		},
	}
	root.Flags().StringVarP(&csvPath, "input", "i", "", "path to the source CSV file")
	root.Flags().StringVarP(&dictOut, "dictionary", "d", "", "path to write the dictionary file")
	root.Flags().StringVarP(&postingsOut, "postings", "p", "", "path to write the postings file")
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to a JSON config file")
	root.MarkFlagRequired("input")
	root.MarkFlagRequired("dictionary")
	root.MarkFlagRequired("postings")

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

func runIndex(csvPath, dictOut, postingsOut, configPath string) error {
	cfg, err := blaze.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	stopwords, err := blaze.LoadStopwords(cfg.StopWordsFile)
	if err != nil {
		slog.Warn("no stopwords file, proceeding without stopword filtering", "path", cfg.StopWordsFile, "err", err)
		stopwords = map[string]struct{}{}
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // short rows are skipped below, not fatal
	if _, err := reader.Read(); err != nil { // header row
		return fmt.Errorf("reading header: %w", err)
	}

	ix := blaze.NewIndexer(cfg.K, cfg.WritePosIndices)
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading corpus: %w", err)
		}
		rowNum++
		if len(row) < 5 {
			slog.Warn("skipping malformed row", "row", rowNum)
			continue
		}
		docIdNum, err := strconv.ParseUint(row[0], 10, 32)
		if err != nil {
			slog.Warn("skipping row with non-numeric doc id", "row", rowNum)
			continue
		}
		docId := blaze.DocId(docIdNum)
		title, content, date, court := row[1], row[2], row[3], row[4]

		pos := blaze.TermPos(0)
		for _, zone := range []struct {
			z    blaze.Zone
			text string
		}{
			{blaze.ZoneTitle, title},
			{blaze.ZoneContent, content},
			{blaze.ZoneDate, date},
			{blaze.ZoneCourt, court},
		} {
			for _, term := range blaze.Tokenize(zone.text, zone.z, stopwords) {
				ix.Feed(term, pos, docId)
				pos++
			}
		}
	}
	ix.Finish()

	paths := blaze.Paths{
		Postings:   postingsOut,
		Dictionary: dictOut,
		Lengths:    cfg.LengthsFile,
		Champion:   cfg.ChampionFile,
	}
	if err := ix.Flush(paths); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	slog.Info("indexing complete", "rows", rowNum)
	return nil
}
