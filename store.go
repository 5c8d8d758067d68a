package blaze

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
)

// ═══════════════════════════════════════════════════════════════════════════════
// ON-DISK LAYOUT
// ═══════════════════════════════════════════════════════════════════════════════
// Four files come out of one indexing run:
//
//   postings.dat   mode byte (0xFF positional, 0x00 plain) + concatenated
//                  per-term posting lists, varbyte/gap encoded, no delimiters
//   dict.dat       Term -> byte offset into postings.dat
//   lengths.dat    DocId -> DocLength
//   champion.dat   DocId -> [(Term, TermWeight), ...] sorted by descending weight
//
// The non-postings files share one tagged format: a uint32 length prefix
// followed by UTF-8 bytes for strings, and a float64 (IEEE-754, big endian)
// for doubles. This is the same length-prefixed-string idiom the original
// skip-list serializer used for term names, generalized to the rest of the
// store's fields instead of tower pointers.
// ═══════════════════════════════════════════════════════════════════════════════

const (
	modePositional byte = 0xFF
	modePlain      byte = 0x00
)

// ChampionEntry is one (Term, TermWeight) pair in a document's champion
// list, ordered by descending weight with ties broken by ascending term.
type ChampionEntry struct {
	Term   Term
	Weight TermWeight
}

// PostingStore owns the four on-disk files and, once loaded, the in-memory
// dictionary/lengths/champions tables used to serve queries (§5: these are
// loaded fully into memory before serving queries; only the postings file
// is touched per query).
type PostingStore struct {
	Positional bool
	Dictionary map[Term]int64 // byte offset into the postings file
	Lengths    map[DocId]DocLength
	Champions  map[DocId][]ChampionEntry

	PostingsPath string
}

func writeLengthPrefixedString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.BigEndian, uint32(len(s)))
	buf.WriteString(s)
}

func readLengthPrefixedString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return string(b), nil
}

// WriteIndex writes the four files for a completed indexing pass. docPostings
// maps each term to its unsorted posting list; the writer sorts each list by
// descending TermFreq (and, in positional mode, descending position count)
// before serializing, per §4.2's writer contract.
func WriteIndex(paths Paths, docPostings map[Term][]Posting, lengths map[DocId]DocLength, champions map[DocId][]ChampionEntry, positional bool) error {
	terms := make([]Term, 0, len(docPostings))
	for t := range docPostings {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })

	var postingsBuf bytes.Buffer
	mode := modePlain
	if positional {
		mode = modePositional
	}
	postingsBuf.WriteByte(mode)

	dictionary := make(map[Term]int64, len(terms))
	for _, t := range terms {
		postings := append([]Posting(nil), docPostings[t]...)
		sort.SliceStable(postings, func(i, j int) bool {
			if postings[i].TermFreq != postings[j].TermFreq {
				return postings[i].TermFreq > postings[j].TermFreq
			}
			if positional {
				return len(postings[i].Positions) > len(postings[j].Positions)
			}
			return false
		})

		dictionary[t] = int64(postingsBuf.Len())

		listBytes := EncodeVarbyte(nil, uint64(len(postings)))
		for _, p := range postings {
			listBytes = EncodeVarbyte(listBytes, uint64(p.DocId))
			listBytes = EncodeVarbyte(listBytes, uint64(p.TermFreq))
			if positional {
				positions := make([]uint64, len(p.Positions))
				for i, pos := range p.Positions {
					positions[i] = uint64(pos)
				}
				listBytes = EncodeGaps(listBytes, positions)
			}
		}
		postingsBuf.Write(listBytes)
	}

	if err := os.WriteFile(paths.Postings, postingsBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing postings file: %w", err)
	}

	var dictBuf bytes.Buffer
	for _, t := range terms {
		writeLengthPrefixedString(&dictBuf, string(t))
		binary.Write(&dictBuf, binary.BigEndian, dictionary[t])
	}
	if err := os.WriteFile(paths.Dictionary, dictBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing dictionary file: %w", err)
	}

	docIds := make([]DocId, 0, len(lengths))
	for d := range lengths {
		docIds = append(docIds, d)
	}
	sort.Slice(docIds, func(i, j int) bool { return docIds[i] < docIds[j] })

	var lengthsBuf bytes.Buffer
	for _, d := range docIds {
		binary.Write(&lengthsBuf, binary.BigEndian, uint32(d))
		binary.Write(&lengthsBuf, binary.BigEndian, math.Float64bits(float64(lengths[d])))
	}
	if err := os.WriteFile(paths.Lengths, lengthsBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing lengths file: %w", err)
	}

	var champBuf bytes.Buffer
	for _, d := range docIds {
		entries := champions[d]
		binary.Write(&champBuf, binary.BigEndian, uint32(d))
		binary.Write(&champBuf, binary.BigEndian, uint32(len(entries)))
		for _, e := range entries {
			writeLengthPrefixedString(&champBuf, string(e.Term))
			binary.Write(&champBuf, binary.BigEndian, math.Float64bits(float64(e.Weight)))
		}
	}
	if err := os.WriteFile(paths.Champion, champBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing champion file: %w", err)
	}

	return nil
}

// Paths groups the four on-disk file locations produced by WriteIndex and
// consumed by LoadStore.
type Paths struct {
	Postings   string
	Dictionary string
	Lengths    string
	Champion   string
}

// LoadStore reads the dictionary, lengths and champion files fully into
// memory, per the §5 resource model. The postings file is opened here only
// to read its mode byte; each PostingReader opens its own handle.
func LoadStore(paths Paths) (*PostingStore, error) {
	dictBytes, err := os.ReadFile(paths.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary file: %w", err)
	}
	dictionary := make(map[Term]int64)
	r := bytes.NewReader(dictBytes)
	for r.Len() > 0 {
		term, err := readLengthPrefixedString(r)
		if err != nil {
			return nil, err
		}
		var offset int64
		if err := binary.Read(r, binary.BigEndian, &offset); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		dictionary[Term(term)] = offset
	}

	lengthsBytes, err := os.ReadFile(paths.Lengths)
	if err != nil {
		return nil, fmt.Errorf("reading lengths file: %w", err)
	}
	lengths := make(map[DocId]DocLength)
	r = bytes.NewReader(lengthsBytes)
	for r.Len() > 0 {
		var docId uint32
		var bits uint64
		if err := binary.Read(r, binary.BigEndian, &docId); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		lengths[DocId(docId)] = DocLength(math.Float64frombits(bits))
	}

	champBytes, err := os.ReadFile(paths.Champion)
	if err != nil {
		return nil, fmt.Errorf("reading champion file: %w", err)
	}
	champions := make(map[DocId][]ChampionEntry)
	r = bytes.NewReader(champBytes)
	for r.Len() > 0 {
		var docId, count uint32
		if err := binary.Read(r, binary.BigEndian, &docId); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if err := binary.Read(r, binary.BigEndian, &count); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		entries := make([]ChampionEntry, count)
		for i := range entries {
			term, err := readLengthPrefixedString(r)
			if err != nil {
				return nil, err
			}
			var bits uint64
			if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
			}
			entries[i] = ChampionEntry{Term: Term(term), Weight: TermWeight(math.Float64frombits(bits))}
		}
		champions[DocId(docId)] = entries
	}

	postingsFile, err := os.Open(paths.Postings)
	if err != nil {
		return nil, fmt.Errorf("opening postings file: %w", err)
	}
	var modeByte [1]byte
	if _, err := postingsFile.Read(modeByte[:]); err != nil {
		postingsFile.Close()
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	postingsFile.Close()

	return &PostingStore{
		Positional:   modeByte[0] == modePositional,
		Dictionary:   dictionary,
		Lengths:      lengths,
		Champions:    champions,
		PostingsPath: paths.Postings,
	}, nil
}
