package blaze

import "strings"

// DocId identifies a document in the corpus. Assigned externally (from the
// source CSV's doc_id column), not by insertion order.
type DocId uint32

// Term is a zone-qualified stemmed token, formatted "zone@stem".
type Term string

// TermPos is the index of a token in its document's concatenated zone
// stream (title, content, date, court, in that order).
type TermPos uint32

// TermFreq is the number of occurrences of a term in a document.
type TermFreq uint32

// DocFreq is the number of documents a term appears in.
type DocFreq uint32

// DocLength is the L2 norm of a document's lnc tf vector.
type DocLength float64

// TermWeight is a champion-list entry weight.
type TermWeight float64

// Posting is one (DocId, TermFreq, positions) entry of a term's posting
// list, in the order the on-disk format requires: descending TermFreq,
// then descending position count when positional.
type Posting struct {
	DocId     DocId
	TermFreq  TermFreq
	Positions []TermPos // nil in plain mode
}

// Zone names the field a token was tokenized from.
type Zone string

const (
	ZoneTitle   Zone = "title"
	ZoneContent Zone = "content"
	ZoneDate    Zone = "date"
	ZoneCourt   Zone = "court"
	ZoneParties Zone = "parties"
	ZoneSection Zone = "section"
)

// ContentZones are the zones a free-text query token is replicated across
// during zone-tag expansion.
var ContentZones = []Zone{ZoneContent, ZoneTitle, ZoneSection, ZoneParties, ZoneCourt}

// zoneWeights implements the asymmetric zone prior from §4.6: applied to
// both query and document vectors, so its effect on relative scoring is
// squared per zone. Any zone not listed here (e.g. date) defaults to 1.0.
var zoneWeights = map[Zone]float64{
	ZoneTitle:   1.0,
	ZoneContent: 0.8,
	ZoneSection: 0.6,
	ZoneParties: 0.4,
	ZoneCourt:   0.2,
}

// ZoneWeight returns the configured weight for a zone, defaulting to 1.0.
func ZoneWeight(z Zone) float64 {
	if w, ok := zoneWeights[z]; ok {
		return w
	}
	return 1.0
}

// MakeTerm builds a zone-qualified term from a zone and a stemmed token.
func MakeTerm(z Zone, stem string) Term {
	return Term(string(z) + "@" + stem)
}

// ZoneOf extracts the zone prefix of a term. Returns ("", false) if the
// term carries no "zone@" prefix.
func ZoneOf(t Term) (Zone, bool) {
	at := strings.IndexByte(string(t), '@')
	if at < 0 {
		return "", false
	}
	return Zone(t[:at]), true
}
