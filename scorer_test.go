package blaze

import (
	"math"
	"testing"
)

func buildScorerFixture(t *testing.T) *Scorer {
	t.Helper()
	ix := NewIndexer(10, false)
	// doc 1: "quick" x2, doc 2: "quick" x1 "brown" x1, doc 3: "brown" x1
	// only (so df(quick) < N and the query vector for "quick" is nonzero)
	ix.Feed("content@quick", 0, 1)
	ix.Feed("content@quick", 1, 1)
	ix.Feed("content@quick", 0, 2)
	ix.Feed("content@brown", 1, 2)
	ix.Feed("content@brown", 0, 3)
	ix.Finish()

	paths, _ := writeTestStore(t, ix)
	store, err := LoadStore(paths)
	if err != nil {
		t.Fatalf("LoadStore failed: %v", err)
	}
	return NewScorer(store)
}

func writeTestStore(t *testing.T, ix *Indexer) (Paths, map[Term][]Posting) {
	t.Helper()
	dir := t.TempDir()
	paths := Paths{
		Postings:   dir + "/postings.dat",
		Dictionary: dir + "/dict.dat",
		Lengths:    dir + "/lengths.dat",
		Champion:   dir + "/champion.dat",
	}
	if err := ix.Flush(paths); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	return paths, ix.postings
}

func TestScorer_QueryVector_IgnoresUnknownTerms(t *testing.T) {
	s := buildScorerFixture(t)
	q := s.QueryVector([]Term{"content@quick", "content@nonexistent"})
	if _, ok := q["content@nonexistent"]; ok {
		t.Error("QueryVector kept a term absent from the dictionary")
	}
	if _, ok := q["content@quick"]; !ok {
		t.Error("QueryVector dropped a known term")
	}
}

func TestScorer_SingleTermQuery_TopResultMatchesFormula(t *testing.T) {
	s := buildScorerFixture(t)
	q := s.QueryVector([]Term{"content@quick"})
	docVecs, err := s.DocumentVectors([]Term{"content@quick"})
	if err != nil {
		t.Fatalf("DocumentVectors failed: %v", err)
	}
	results := s.Score(q, docVecs)
	if len(results) == 0 {
		t.Fatal("no results returned")
	}
	// doc 1 has term frequency 2 for "quick", doc 2 has term frequency 1;
	// per §8, the top result for a single-term query maximizes
	// (1 + log10 tf) / length.
	top := results[0].DocId
	if top != 1 {
		t.Errorf("top result = %d, want 1 (higher tf for the query term)", top)
	}
}

func TestRocchio_IdentityWhenAlphaOneBetaZero(t *testing.T) {
	s := buildScorerFixture(t)
	q := s.QueryVector([]Term{"content@quick"})
	before := q["content@quick"]

	out := s.Rocchio(q, []DocId{1, 2}, RocchioParams{Alpha: 1, Beta: 0})
	if math.Abs(out["content@quick"]-before) > 1e-9 {
		t.Errorf("Rocchio(alpha=1,beta=0) changed q[t]: %v -> %v", before, out["content@quick"])
	}
}

func TestRocchio_EmptyRelevantSetIsNoOp(t *testing.T) {
	s := buildScorerFixture(t)
	q := s.QueryVector([]Term{"content@quick"})
	out := s.Rocchio(q, nil, RocchioParams{Alpha: 1, Beta: 0.75})
	if len(out) != len(q) || out["content@quick"] != q["content@quick"] {
		t.Error("Rocchio over an empty relevant set should be a no-op")
	}
}

func TestRocchio_FaithfulBranchDoublesQueryTerm(t *testing.T) {
	s := buildScorerFixture(t)
	q := map[Term]float64{"content@quick": 2.0}
	s.Store.Champions[9] = []ChampionEntry{{Term: "content@quick", Weight: 3.0}}

	out := s.Rocchio(q, []DocId{9}, RocchioParams{Alpha: 0.5, Beta: 0.5, Conventional: false})
	// faithful branch: alpha*q[t] + beta*q[t], NOT alpha*q[t] + beta*centroid[t]
	want := 0.5*2.0 + 0.5*2.0
	if math.Abs(out["content@quick"]-want) > 1e-9 {
		t.Errorf("Rocchio faithful branch = %v, want %v", out["content@quick"], want)
	}
}

func TestRocchio_ConventionalBranchUsesCentroid(t *testing.T) {
	s := buildScorerFixture(t)
	q := map[Term]float64{"content@quick": 2.0}
	s.Store.Champions[9] = []ChampionEntry{{Term: "content@quick", Weight: 3.0}}

	out := s.Rocchio(q, []DocId{9}, RocchioParams{Alpha: 0.5, Beta: 0.5, Conventional: true})
	want := 0.5*2.0 + 0.5*3.0
	if math.Abs(out["content@quick"]-want) > 1e-9 {
		t.Errorf("Rocchio conventional branch = %v, want %v", out["content@quick"], want)
	}
}

func TestApplyZoneWeights(t *testing.T) {
	v := map[Term]float64{"title@x": 1.0, "court@x": 1.0, "date@x": 1.0}
	ApplyZoneWeights(v)
	if v["title@x"] != 1.0 {
		t.Errorf("title weight = %v, want 1.0", v["title@x"])
	}
	if v["court@x"] != 0.2 {
		t.Errorf("court weight = %v, want 0.2", v["court@x"])
	}
	if v["date@x"] != 1.0 {
		t.Errorf("unlisted zone weight = %v, want 1.0", v["date@x"])
	}
}
