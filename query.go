package blaze

import (
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// QUERY ENGINE
// ═══════════════════════════════════════════════════════════════════════════════
// A raw query string takes one of three shapes:
//
//   boolean             tokens contain the literal "AND" standalone
//   phrasal free-text    quoted spans exist, no "AND"
//   free-text            the default
//
// Boolean subqueries intersect via roaring bitmaps, the same compressed
// doc-id set representation the teacher index used for its DocBitmaps -
// here built per query from a fresh posting-list scan rather than held
// permanently in memory, matching the query-time-only resource model.
// ═══════════════════════════════════════════════════════════════════════════════

// QueryEngine ties together the store, scorer and thesaurus to answer a
// raw query string.
type QueryEngine struct {
	Store     *PostingStore
	Scorer    *Scorer
	Thesaurus *Thesaurus
	Config    *Config
}

// NewQueryEngine builds an engine over a loaded store.
func NewQueryEngine(store *PostingStore, thesaurus *Thesaurus, cfg *Config) *QueryEngine {
	return &QueryEngine{
		Store:     store,
		Scorer:    NewScorer(store),
		Thesaurus: thesaurus,
		Config:    cfg,
	}
}

// queryShape classifies a raw query string per §4.7.
type queryShape int

const (
	shapeFreeText queryShape = iota
	shapeBoolean
	shapePhrasal
)

func classify(raw string) queryShape {
	tokens := strings.Fields(raw)
	for _, tok := range tokens {
		if tok == "AND" {
			return shapeBoolean
		}
	}
	if strings.Contains(raw, `"`) {
		return shapePhrasal
	}
	return shapeFreeText
}

// Run answers a raw query. Free-text and phrasal queries return DocIds
// ranked by descending score, ties broken by ascending DocId; boolean
// queries return the matching DocIds unscored, in ascending order. relevant
// is the set of DocIds to use for Rocchio feedback, if enabled; boolean
// queries ignore it.
func (qe *QueryEngine) Run(raw string, relevant []DocId) ([]DocId, error) {
	switch classify(raw) {
	case shapeBoolean:
		return qe.runBoolean(raw)
	case shapePhrasal:
		return qe.runPhrasal(raw, relevant)
	default:
		return qe.runFreeText(raw, relevant)
	}
}

// --- boolean ---------------------------------------------------------------

func (qe *QueryEngine) runBoolean(raw string) ([]DocId, error) {
	subqueries := strings.Split(raw, "AND")
	var result *roaring.Bitmap
	for _, sub := range subqueries {
		sub = strings.TrimSpace(sub)
		bm, err := qe.subqueryBitmap(sub)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = bm
		} else {
			result.And(bm)
		}
		if result.IsEmpty() {
			break
		}
	}
	if result == nil {
		return nil, nil
	}
	return bitmapToDocIds(result), nil
}

// subqueryBitmap resolves one boolean operand — a quoted phrase or a
// single stemmed word — to its matching doc-id bitmap.
func (qe *QueryEngine) subqueryBitmap(operand string) (*roaring.Bitmap, error) {
	if strings.HasPrefix(operand, `"`) && strings.HasSuffix(operand, `"`) {
		docs, err := qe.phraseDocs(strings.Trim(operand, `"`))
		if err != nil {
			return nil, err
		}
		return docIdsToBitmap(docs), nil
	}
	stem := StemQueryToken(operand)
	bm := roaring.New()
	for _, z := range ContentZones {
		docs, err := qe.termDocs(MakeTerm(z, stem))
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			bm.Add(uint32(d))
		}
	}
	return bm, nil
}

func (qe *QueryEngine) termDocs(t Term) ([]DocId, error) {
	if _, ok := qe.Store.Dictionary[t]; !ok {
		return nil, nil
	}
	r, err := NewPostingReader(qe.Store.PostingsPath, qe.Store.Dictionary)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if err := r.SeekTerm(t); err != nil {
		return nil, err
	}
	if r.DocFreq() == 0 {
		return nil, nil
	}
	if !r.Positional() {
		if err := r.ReadEntry(); err != nil {
			return nil, err
		}
	}
	var docs []DocId
	for {
		docs = append(docs, r.CurrentDoc())
		if r.IsDone() {
			break
		}
		var err error
		if r.Positional() {
			err = r.ReadNextDoc()
		} else {
			err = r.ReadEntry()
		}
		if err == ErrNoMoreDocs {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func bitmapToDocIds(bm *roaring.Bitmap) []DocId {
	out := make([]DocId, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, DocId(it.Next()))
	}
	return out
}

func docIdsToBitmap(docs []DocId) *roaring.Bitmap {
	bm := roaring.New()
	for _, d := range docs {
		bm.Add(uint32(d))
	}
	return bm
}

// --- phrasal -----------------------------------------------------------

// phraseDocs resolves a phrase to the doc ids where it occurs, via
// positional intersection across the content-bearing zones (§4.7).
func (qe *QueryEngine) phraseDocs(phrase string) ([]DocId, error) {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return nil, nil
	}
	stems := make([]string, len(words))
	for i, w := range words {
		stems[i] = StemQueryToken(w)
	}

	posmaps := make([]map[DocId]map[TermPos]struct{}, len(stems))
	for i, stem := range stems {
		merged := make(map[DocId]map[TermPos]struct{})
		for _, z := range ContentZones {
			m, err := qe.positionsOf(MakeTerm(z, stem))
			if err != nil {
				return nil, err
			}
			for d, ps := range m {
				if merged[d] == nil {
					merged[d] = make(map[TermPos]struct{})
				}
				for p := range ps {
					merged[d][p] = struct{}{}
				}
			}
		}
		posmaps[i] = merged
	}

	result := posmaps[0]
	for i := 1; i < len(posmaps); i++ {
		next := make(map[DocId]map[TermPos]struct{})
		for d, positions := range result {
			other, ok := posmaps[i][d]
			if !ok {
				continue
			}
			surviving := make(map[TermPos]struct{})
			for p := range positions {
				if _, ok := other[p+TermPos(i)]; ok {
					surviving[p] = struct{}{}
				}
			}
			if len(surviving) > 0 {
				next[d] = surviving
			}
		}
		result = next
	}

	docs := make([]DocId, 0, len(result))
	for d := range result {
		docs = append(docs, d)
	}
	return docs, nil
}

// positionsOf reads a term's full positional posting list into a
// DocId -> set(position) map, visiting every position in every document.
func (qe *QueryEngine) positionsOf(t Term) (map[DocId]map[TermPos]struct{}, error) {
	out := make(map[DocId]map[TermPos]struct{})
	if _, ok := qe.Store.Dictionary[t]; !ok {
		return out, nil
	}
	r, err := NewPostingReader(qe.Store.PostingsPath, qe.Store.Dictionary)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if err := r.SeekTerm(t); err != nil {
		return nil, err
	}
	if r.DocFreq() == 0 || !r.Positional() {
		return out, nil
	}

	for {
		docId := r.CurrentDoc()
		if out[docId] == nil {
			out[docId] = make(map[TermPos]struct{})
		}
		out[docId][r.CurrentPosition()] = struct{}{}
		if r.IsDone() {
			break
		}
		if err := r.ReadEntry(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (qe *QueryEngine) runPhrasal(raw string, relevant []DocId) ([]DocId, error) {
	phrases, freeTokens := extractPhrases(raw)

	candidate := make(map[DocId]struct{})
	for _, phrase := range phrases {
		docs, err := qe.phraseDocs(phrase)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			candidate[d] = struct{}{}
		}
	}

	queryTerms := qe.expandFreeTokens(freeTokens)
	q := qe.Scorer.QueryVector(queryTerms)
	if qe.Config.RunRocchio && len(relevant) > 0 {
		q = qe.Scorer.Rocchio(q, relevant, qe.Config.Rocchio())
	}
	docVecs, err := qe.Scorer.DocumentVectors(queryTerms)
	if err != nil {
		return nil, err
	}
	for d := range candidate {
		if _, ok := docVecs[d]; !ok {
			docVecs[d] = make(map[Term]float64)
		}
	}
	scored := qe.Scorer.Score(q, docVecs)

	out := make([]DocId, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.DocId)
	}
	return out, nil
}

func extractPhrases(raw string) (phrases []string, free []string) {
	var inQuote bool
	var phrase, freeText strings.Builder
	for _, r := range raw {
		switch {
		case r == '"':
			if inQuote {
				phrases = append(phrases, phrase.String())
				phrase.Reset()
			}
			inQuote = !inQuote
		case inQuote:
			phrase.WriteRune(r)
		default:
			freeText.WriteRune(r)
		}
	}
	free = strings.Fields(freeText.String())
	return phrases, free
}

// --- free text -----------------------------------------------------------

func (qe *QueryEngine) runFreeText(raw string, relevant []DocId) ([]DocId, error) {
	tokens := strings.Fields(raw)
	queryTerms := qe.expandFreeTokens(tokens)

	q := qe.Scorer.QueryVector(queryTerms)
	if qe.Config.RunRocchio && len(relevant) > 0 {
		q = qe.Scorer.Rocchio(q, relevant, qe.Config.Rocchio())
	}
	docVecs, err := qe.Scorer.DocumentVectors(queryTerms)
	if err != nil {
		return nil, err
	}
	scored := qe.Scorer.Score(q, docVecs)

	out := make([]DocId, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.DocId)
	}
	return out, nil
}

// expandFreeTokens stems each token, optionally expands it through the
// thesaurus, and zone-tags every result across the content-bearing zones
// (§4.7).
func (qe *QueryEngine) expandFreeTokens(tokens []string) []Term {
	var terms []Term
	for _, tok := range tokens {
		stem := StemQueryToken(tok)
		stems := []string{stem}
		if qe.Config.RunQueryExpansion && qe.Thesaurus != nil {
			stems = append(stems, qe.Thesaurus.Lookup(stem)...)
		}
		for _, s := range stems {
			for _, z := range ContentZones {
				terms = append(terms, MakeTerm(z, s))
			}
		}
	}
	return terms
}
