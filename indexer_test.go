package blaze

import (
	"math"
	"testing"
)

func TestIndexer_DocLengthClosesOutOnTransition(t *testing.T) {
	ix := NewIndexer(10, true)
	ix.Feed("content@a", 0, 1)
	ix.Feed("content@a", 1, 1)
	ix.Feed("content@b", 2, 1)
	ix.Feed("content@a", 0, 2) // transition closes out doc 1

	want := math.Sqrt(math.Pow(1+math.Log10(2), 2) + math.Pow(1+math.Log10(1), 2))
	got := float64(ix.lengths[1])
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("lengths[1] = %v, want %v", got, want)
	}
	if _, ok := ix.lengths[2]; ok {
		t.Error("doc 2 was closed out before Finish")
	}
}

func TestIndexer_FinishClosesOutFinalDoc(t *testing.T) {
	ix := NewIndexer(10, true)
	ix.Feed("content@a", 0, 1)
	ix.Finish()

	if _, ok := ix.lengths[1]; !ok {
		t.Error("Finish did not close out the final document")
	}
}

func TestIndexer_PositionsRecordedWhenPositional(t *testing.T) {
	ix := NewIndexer(10, true)
	ix.Feed("content@a", 0, 1)
	ix.Feed("content@a", 3, 1)
	ix.Finish()

	ps := ix.postings["content@a"]
	if len(ps) != 1 || len(ps[0].Positions) != 2 {
		t.Fatalf("postings = %+v, want one posting with 2 positions", ps)
	}
	if ps[0].Positions[0] != 0 || ps[0].Positions[1] != 3 {
		t.Errorf("positions = %v, want [0 3]", ps[0].Positions)
	}
}

func TestIndexer_PositionsOmittedWhenPlain(t *testing.T) {
	ix := NewIndexer(10, false)
	ix.Feed("content@a", 0, 1)
	ix.Feed("content@a", 3, 1)
	ix.Finish()

	ps := ix.postings["content@a"]
	if len(ps) != 1 || ps[0].Positions != nil {
		t.Fatalf("postings = %+v, want positions nil", ps)
	}
	if ps[0].TermFreq != 2 {
		t.Errorf("TermFreq = %d, want 2", ps[0].TermFreq)
	}
}

func TestIndexer_ChampionsCappedAtKAndSortedDescending(t *testing.T) {
	ix := NewIndexer(1, true)
	ix.Feed("content@rare", 0, 1)
	ix.Feed("content@common", 1, 1)
	ix.Feed("content@common", 0, 2)
	ix.Finish()

	champs := ix.Champions()
	if len(champs[1]) > 1 {
		t.Errorf("len(champions[1]) = %d, want <= K=1", len(champs[1]))
	}
	// "rare" has df=1 of N=2 and outweighs "common" (df=2, idf 0), so the
	// single kept entry must be the top of the descending order.
	if len(champs[1]) == 1 && champs[1][0].Term != "content@rare" {
		t.Errorf("champions[1] = %v, want the highest-weight term content@rare", champs[1])
	}
}

func TestIndexer_ChampionWeightTieBrokenByAscendingTerm(t *testing.T) {
	ix := NewIndexer(10, true)
	// two terms with identical document frequency and term frequency in
	// the same single document end up with identical weight.
	ix.Feed("content@alpha", 0, 1)
	ix.Feed("content@beta", 1, 1)
	ix.Finish()

	champs := ix.Champions()[1]
	if len(champs) != 2 {
		t.Fatalf("len(champions) = %d, want 2", len(champs))
	}
	if champs[0].Term != "content@alpha" || champs[1].Term != "content@beta" {
		t.Errorf("tie order = %v, want alpha before beta", champs)
	}
}
