package blaze

import (
	"bufio"
	"os"
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TOKENIZER
// ═══════════════════════════════════════════════════════════════════════════════
// Pipeline, in order:
//
//  1. Lowercase
//  2. Word-tokenize on non-letter/non-digit boundaries
//  3. Porter-stem every surviving token
//  4. Drop tokens that are purely punctuation (nothing left after stemming)
//  5. Drop stopwords, compared AFTER stemming
//  6. Prepend "zone@"
//
// Step 5 running after step 3 is deliberate: a stopword list built against
// stemmed forms catches conjugations a pre-stem list would miss.
// ═══════════════════════════════════════════════════════════════════════════════

// Tokenize transforms zone text into zone-qualified terms. The returned
// slice preserves input order; its indices, offset by the caller's running
// position, become each term's TermPos.
func Tokenize(text string, zone Zone, stopwords map[string]struct{}) []Term {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := make([]Term, 0, len(words))
	for _, w := range words {
		stem := snowballeng.Stem(strings.ToLower(w), false)
		if stem == "" {
			continue
		}
		if _, isStopword := stopwords[stem]; isStopword {
			continue
		}
		terms = append(terms, MakeTerm(zone, stem))
	}
	return terms
}

// LoadStopwords reads a whitespace-separated list of lowercase words.
func LoadStopwords(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stopwords := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		stopwords[strings.ToLower(scanner.Text())] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return stopwords, nil
}

// StemQueryToken stems a single raw query operand the same way a document
// token is stemmed, so a query term compares equal to its indexed form.
func StemQueryToken(w string) string {
	return snowballeng.Stem(strings.ToLower(w), false)
}
