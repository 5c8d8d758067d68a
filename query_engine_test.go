package blaze

import (
	"testing"
)

func buildQueryEngineFixture(t *testing.T) *QueryEngine {
	t.Helper()
	ix := NewIndexer(10, true)
	// doc 1: "the quick brown fox" (title), doc 2: "quick dogs" (title)
	feed := func(text string, zone Zone, docId DocId) {
		pos := TermPos(0)
		for _, term := range Tokenize(text, zone, nil) {
			ix.Feed(term, pos, docId)
			pos++
		}
	}
	feed("the quick brown fox", ZoneTitle, 1)
	feed("quick dogs", ZoneTitle, 2)
	ix.Finish()

	paths, _ := writeTestStore(t, ix)
	store, err := LoadStore(paths)
	if err != nil {
		t.Fatalf("LoadStore failed: %v", err)
	}
	cfg := DefaultConfig()
	return NewQueryEngine(store, nil, cfg)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want queryShape
	}{
		{"quick brown", shapeFreeText},
		{`"quick brown" fox`, shapePhrasal},
		{`quick AND brown`, shapeBoolean},
		{`"quick brown" AND fox`, shapeBoolean},
	}
	for _, tt := range tests {
		if got := classify(tt.raw); got != tt.want {
			t.Errorf("classify(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestQueryEngine_FreeText_ReturnsAllMatchingDocs(t *testing.T) {
	qe := buildQueryEngineFixture(t)
	results, err := qe.Run("quick", nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %v, want 2 docs", results)
	}
}

func TestQueryEngine_Boolean_Intersection(t *testing.T) {
	qe := buildQueryEngineFixture(t)
	results, err := qe.Run("quick AND brown", nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 || results[0] != 1 {
		t.Errorf("results = %v, want [1]", results)
	}
}

func TestQueryEngine_Boolean_EmptyIntersection(t *testing.T) {
	qe := buildQueryEngineFixture(t)
	results, err := qe.Run("fox AND dogs", nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want empty", results)
	}
}

func TestQueryEngine_Phrasal_FindsExactSpan(t *testing.T) {
	qe := buildQueryEngineFixture(t)
	docs, err := qe.phraseDocs("quick brown")
	if err != nil {
		t.Fatalf("phraseDocs failed: %v", err)
	}
	if len(docs) != 1 || docs[0] != 1 {
		t.Errorf("phraseDocs = %v, want [1]", docs)
	}
}

func TestQueryEngine_Phrasal_NoMatchForReversedOrder(t *testing.T) {
	qe := buildQueryEngineFixture(t)
	docs, err := qe.phraseDocs("brown quick")
	if err != nil {
		t.Fatalf("phraseDocs failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("phraseDocs(reversed) = %v, want empty", docs)
	}
}
