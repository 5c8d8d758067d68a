package blaze

import (
	"math"
	"sort"
)

// ═══════════════════════════════════════════════════════════════════════════════
// SCORER
// ═══════════════════════════════════════════════════════════════════════════════
// Zone-weighted lnc.ltc cosine scoring:
//
//   query side (ltc):    q[t] = (1 + log10 tf_q(t)) * log10(N / df(t))
//   document side (lnc): d[t] = 1 + log10 tf(t, doc)    (idf-free, normalized
//                                by the precomputed document length)
//
// Zone weights are applied to BOTH vectors (§4.6 step 4): this squares each
// zone's contribution to the final dot product relative to an unweighted
// term. That is the documented, intentional behavior of this system, not
// an oversight to be "fixed".
// ═══════════════════════════════════════════════════════════════════════════════

// ScoredDoc is one ranked result.
type ScoredDoc struct {
	DocId DocId
	Score float64
}

// RocchioParams holds the feedback coefficients and the Open-Question-1
// formula switch (§4.6.1, §9).
type RocchioParams struct {
	Alpha float64
	Beta  float64
	// Conventional switches the "term already in query" branch from the
	// faithfully-reproduced q[t]*alpha + q[t]*beta to the textbook
	// alpha*q[t] + beta*centroid[t].
	Conventional bool
}

// Scorer computes query vectors, document vectors and final scores over a
// loaded PostingStore.
type Scorer struct {
	Store *PostingStore
}

// NewScorer wraps a loaded store for scoring.
func NewScorer(store *PostingStore) *Scorer {
	return &Scorer{Store: store}
}

// QueryVector builds the ltc query vector from a term multiset, restricted
// to terms present in the dictionary (§4.6 step 1).
func (s *Scorer) QueryVector(queryTerms []Term) map[Term]float64 {
	tf := make(map[Term]int)
	for _, t := range queryTerms {
		if _, ok := s.Store.Dictionary[t]; !ok {
			continue
		}
		tf[t]++
	}
	n := float64(len(s.Store.Lengths))
	q := make(map[Term]float64, len(tf))
	for t, c := range tf {
		df := s.termDocFreq(t)
		if df == 0 {
			continue
		}
		q[t] = (1 + math.Log10(float64(c))) * math.Log10(n/float64(df))
	}
	return q
}

// termDocFreq reads a term's document frequency by seeking it in the
// postings file.
func (s *Scorer) termDocFreq(t Term) uint64 {
	r, err := NewPostingReader(s.Store.PostingsPath, s.Store.Dictionary)
	if err != nil {
		return 0
	}
	defer r.Close()
	if err := r.SeekTerm(t); err != nil {
		return 0
	}
	return r.DocFreq()
}

// ApplyZoneWeights multiplies each term's weight by its zone's weight, in
// place, for either a query or a document vector.
func ApplyZoneWeights(v map[Term]float64) {
	for t, w := range v {
		zone, ok := ZoneOf(t)
		if !ok {
			continue
		}
		v[t] = w * ZoneWeight(zone)
	}
}

// Rocchio computes the champion-weight centroid of the relevant set and
// folds it into the query vector per §4.6.1, returning a new vector.
func (s *Scorer) Rocchio(q map[Term]float64, relevant []DocId, params RocchioParams) map[Term]float64 {
	if len(relevant) == 0 {
		return q
	}

	centroid := make(map[Term]float64)
	for _, d := range relevant {
		entries, ok := s.Store.Champions[d]
		if !ok {
			continue
		}
		for _, e := range entries {
			centroid[e.Term] += float64(e.Weight)
		}
	}
	for t := range centroid {
		centroid[t] /= float64(len(relevant))
	}

	out := make(map[Term]float64, len(q))
	for t, v := range q {
		out[t] = v
	}
	for t, c := range centroid {
		if c <= 0 {
			continue
		}
		existing, inQuery := out[t]
		switch {
		case !inQuery:
			out[t] = params.Beta * c
		case params.Conventional:
			out[t] = params.Alpha*existing + params.Beta*c
		default:
			// Faithful to the source: the "already in query" branch uses
			// q[t] twice, not the centroid, unless Conventional is set.
			out[t] = params.Alpha*existing + params.Beta*existing
		}
	}
	return out
}

// DocumentVectors streams each query term's posting list, building
// lnc weights per document (§4.6 step 3). Positions are skipped via
// ReadNextDoc when the store is positional.
func (s *Scorer) DocumentVectors(queryTerms []Term) (map[DocId]map[Term]float64, error) {
	vecs := make(map[DocId]map[Term]float64)
	seen := make(map[Term]struct{})
	for _, t := range queryTerms {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := s.Store.Dictionary[t]; !ok {
			continue
		}
		if err := s.accumulateTerm(t, vecs); err != nil {
			return nil, err
		}
	}
	return vecs, nil
}

func (s *Scorer) accumulateTerm(t Term, vecs map[DocId]map[Term]float64) error {
	r, err := NewPostingReader(s.Store.PostingsPath, s.Store.Dictionary)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.SeekTerm(t); err != nil {
		return err
	}
	if r.DocFreq() == 0 {
		return nil
	}

	// Positional mode primes the first document in SeekTerm; plain mode
	// only decodes DocFreq there, so the first document needs an explicit
	// ReadEntry before CurrentDoc is valid.
	if !r.Positional() {
		if err := r.ReadEntry(); err != nil {
			return err
		}
	}

	for {
		docId := r.CurrentDoc()
		tf := r.CurrentTermFreq()
		if vecs[docId] == nil {
			vecs[docId] = make(map[Term]float64)
		}
		vecs[docId][t] = 1 + math.Log10(float64(tf))

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
			return err
		}
	}
	return nil
}

// Score combines query and document vectors into ranked results, per §4.6
// steps 4-6.
func (s *Scorer) Score(q map[Term]float64, docVecs map[DocId]map[Term]float64) []ScoredDoc {
	qWeighted := make(map[Term]float64, len(q))
	for t, w := range q {
		qWeighted[t] = w
	}
	ApplyZoneWeights(qWeighted)

	results := make([]ScoredDoc, 0, len(docVecs))
	for docId, dvec := range docVecs {
		weighted := make(map[Term]float64, len(dvec))
		for t, w := range dvec {
			weighted[t] = w
		}
		ApplyZoneWeights(weighted)

		var dot float64
		for t, qw := range qWeighted {
			dot += weighted[t] * qw
		}
		length := s.Store.Lengths[docId]
		if length == 0 {
			continue
		}
		results = append(results, ScoredDoc{DocId: docId, Score: dot / float64(length)})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].DocId < results[j].DocId })
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}
