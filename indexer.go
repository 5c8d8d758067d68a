package blaze

import (
	"log/slog"
	"math"
	"sort"
)

// ═══════════════════════════════════════════════════════════════════════════════
// INDEXER
// ═══════════════════════════════════════════════════════════════════════════════
// A single streaming pass over (term, pos, doc_id) triples, in the order
// produced by tokenizing each document's zones (title, content, date,
// court) and concatenating. Documents must arrive
// grouped together (all of one doc_id's triples, then the next), which is
// how the CLI layer drives CSV rows through Feed. A document boundary
// closes out the previous document's length; the final document is closed
// out once the caller calls Finish.
// ═══════════════════════════════════════════════════════════════════════════════

// Indexer accumulates postings and per-document lengths across one pass,
// then computes champion lists and flushes to a PostingStore.
type Indexer struct {
	K          int
	Positional bool

	postings map[Term][]Posting           // DocId -> position list is folded into Posting.Positions
	termDocs map[Term]map[DocId]*Posting  // fast lookup while a document is open
	lengths  map[DocId]DocLength

	currentDoc      DocId
	haveCurrentDoc  bool
	termFreqCounter map[Term]int
}

// NewIndexer constructs an empty indexer. K bounds the champion list size
// per document; positional controls whether position lists are retained.
func NewIndexer(k int, positional bool) *Indexer {
	return &Indexer{
		K:               k,
		Positional:      positional,
		postings:        make(map[Term][]Posting),
		termDocs:        make(map[Term]map[DocId]*Posting),
		lengths:         make(map[DocId]DocLength),
		termFreqCounter: make(map[Term]int),
	}
}

// Feed processes one (term, pos, doc_id) triple.
func (ix *Indexer) Feed(term Term, pos TermPos, docId DocId) {
	if !ix.haveCurrentDoc {
		ix.currentDoc = docId
		ix.haveCurrentDoc = true
	} else if docId != ix.currentDoc {
		ix.closeOutDoc()
		ix.currentDoc = docId
	}

	ix.termFreqCounter[term]++

	docs, ok := ix.termDocs[term]
	if !ok {
		docs = make(map[DocId]*Posting)
		ix.termDocs[term] = docs
	}
	p, ok := docs[docId]
	if !ok {
		ix.postings[term] = append(ix.postings[term], Posting{DocId: docId})
		p = &ix.postings[term][len(ix.postings[term])-1]
		docs[docId] = p
	}
	p.TermFreq++
	if ix.Positional {
		p.Positions = append(p.Positions, pos)
	}
}

// closeOutDoc finalizes the current document's length from its term
// frequency counter and resets the counter for the next document.
func (ix *Indexer) closeOutDoc() {
	var sumSq float64
	for _, c := range ix.termFreqCounter {
		lw := 1 + math.Log10(float64(c))
		sumSq += lw * lw
	}
	ix.lengths[ix.currentDoc] = DocLength(math.Sqrt(sumSq))
	ix.termFreqCounter = make(map[Term]int)
}

// Finish closes out the final document. Must be called exactly once after
// the last Feed call.
func (ix *Indexer) Finish() {
	if ix.haveCurrentDoc {
		ix.closeOutDoc()
	}
}

// docFreqs returns each term's document frequency, derived from the
// accumulated posting lists.
func (ix *Indexer) docFreqs() map[Term]int {
	df := make(map[Term]int, len(ix.postings))
	for t, ps := range ix.postings {
		df[t] = len(ps)
	}
	return df
}

// Champions computes the top-K (term, weight) champion list for every
// indexed document, per §4.5. Ties are broken by ascending term.
func (ix *Indexer) Champions() map[DocId][]ChampionEntry {
	n := len(ix.lengths)
	df := ix.docFreqs()

	byDoc := make(map[DocId][]ChampionEntry)
	for t, ps := range ix.postings {
		logIdf := math.Log10(float64(n) / float64(df[t]))
		for _, p := range ps {
			length := ix.lengths[p.DocId]
			if length == 0 {
				continue
			}
			w := (1 + math.Log10(float64(p.TermFreq))) * logIdf / float64(length)
			byDoc[p.DocId] = append(byDoc[p.DocId], ChampionEntry{Term: t, Weight: TermWeight(w)})
		}
	}

	for docId, entries := range byDoc {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Weight != entries[j].Weight {
				return entries[i].Weight > entries[j].Weight
			}
			return entries[i].Term < entries[j].Term
		})
		if len(entries) > ix.K {
			entries = entries[:ix.K]
		}
		byDoc[docId] = entries
	}
	return byDoc
}

// Flush writes the accumulated index to paths via WriteIndex.
func (ix *Indexer) Flush(paths Paths) error {
	champions := ix.Champions()
	slog.Info("flushing index", "documents", len(ix.lengths), "terms", len(ix.postings), "positional", ix.Positional)
	return WriteIndex(paths, ix.postings, ix.lengths, champions, ix.Positional)
}
