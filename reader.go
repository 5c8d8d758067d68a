package blaze

import (
	"fmt"
	"os"
)

// ═══════════════════════════════════════════════════════════════════════════════
// POSTING READER
// ═══════════════════════════════════════════════════════════════════════════════
// A scoped resource over the postings file: one open file handle, a cursor
// keyed by the current term. seek_term jumps to a term's serialized list and
// primes the cursor; read_entry advances one unit at a time (one document in
// plain mode, one position in positional mode); read_next_doc skips to the
// next document boundary. Every seek_term reads afresh from the term's
// stored offset, so one instance may serve several terms serially, never
// concurrently.
// ═══════════════════════════════════════════════════════════════════════════════

// PostingReader is a scoped cursor over one postings file.
type PostingReader struct {
	file       *os.File
	dictionary map[Term]int64
	positional bool

	fileOffset int64
	done       bool

	docFreq       uint64
	remainingDocs uint64

	currentDoc       DocId
	currentTermFreq  TermFreq
	remainingPosns   uint64
	currentPosition  TermPos

	buf []byte // postings bytes from the term's offset to end of file, read once per seek_term
	pos int    // cursor within buf
}

// NewPostingReader opens the postings file and reads its mode byte, per
// §4.3's "reads the mode byte once" contract.
func NewPostingReader(path string, dictionary map[Term]int64) (*PostingReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening postings file: %w", err)
	}
	var modeByte [1]byte
	if _, err := f.Read(modeByte[:]); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return &PostingReader{
		file:       f,
		dictionary: dictionary,
		positional: modeByte[0] == modePositional,
	}, nil
}

// Close releases the file handle. Safe to call multiple times.
func (r *PostingReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Positional reports whether the postings file carries positions.
func (r *PostingReader) Positional() bool { return r.positional }

// DocFreq returns the number of documents in the current term's posting
// list, valid after SeekTerm.
func (r *PostingReader) DocFreq() uint64 { return r.docFreq }

// RemainingDocs returns the number of documents not yet visited.
func (r *PostingReader) RemainingDocs() uint64 { return r.remainingDocs }

// IsDone reports whether the cursor has exhausted the current term.
func (r *PostingReader) IsDone() bool { return r.done }

// CurrentDoc returns the document id at the cursor.
func (r *PostingReader) CurrentDoc() DocId { return r.currentDoc }

// CurrentTermFreq returns the term frequency of the document at the cursor.
func (r *PostingReader) CurrentTermFreq() TermFreq { return r.currentTermFreq }

// CurrentPosition returns the position value at the cursor (positional mode
// only).
func (r *PostingReader) CurrentPosition() TermPos { return r.currentPosition }

// SeekTerm positions the cursor at the start of t's posting list. Fails
// with ErrUnknownTerm if t is not in the dictionary.
func (r *PostingReader) SeekTerm(t Term) error {
	offset, ok := r.dictionary[t]
	if !ok {
		return ErrUnknownTerm
	}
	r.fileOffset = offset
	r.done = false

	// The posting list length is not recorded; read from the term's offset
	// to end of file and decode lazily, the way the rest of this package
	// treats the postings file as a flat byte stream rather than a seekable
	// record store.
	info, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("stat postings file: %w", err)
	}
	remaining := info.Size() - offset
	buf := make([]byte, remaining)
	if _, err := r.file.ReadAt(buf, offset); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	r.buf = buf
	r.pos = 0

	docFreq, next, err := DecodeVarbyte(r.buf, r.pos)
	if err != nil {
		return err
	}
	r.pos = next
	r.docFreq = docFreq

	if r.positional {
		if docFreq == 0 {
			r.remainingDocs = 0
			r.done = true
			return nil
		}
		if err := r.decodeDocHeader(); err != nil {
			return err
		}
		r.remainingPosns = uint64(r.currentTermFreq) - 1
		r.remainingDocs = docFreq - 1
	} else {
		r.remainingDocs = docFreq
	}
	return nil
}

// decodeDocHeader reads the (DocId, TermFreq, first position) triplet at
// the cursor in positional mode, or (DocId, TermFreq) in plain mode.
func (r *PostingReader) decodeDocHeader() error {
	docId, next, err := DecodeVarbyte(r.buf, r.pos)
	if err != nil {
		return err
	}
	r.pos = next
	termFreq, next, err := DecodeVarbyte(r.buf, r.pos)
	if err != nil {
		return err
	}
	r.pos = next
	r.currentDoc = DocId(docId)
	r.currentTermFreq = TermFreq(termFreq)

	if r.positional {
		firstPos, next, err := DecodeVarbyte(r.buf, r.pos)
		if err != nil {
			return err
		}
		r.pos = next
		r.currentPosition = TermPos(firstPos)
	}
	return nil
}

// ReadEntry advances the cursor one unit, per §4.3. Fails with
// ErrReadAfterDone if called when IsDone is true.
func (r *PostingReader) ReadEntry() error {
	if r.done {
		return ErrReadAfterDone
	}
	if !r.positional {
		if err := r.decodeDocHeader(); err != nil {
			return err
		}
		r.remainingDocs--
		if r.remainingDocs == 0 {
			r.done = true
		}
		return nil
	}

	if r.remainingPosns > 0 {
		gap, next, err := DecodeVarbyte(r.buf, r.pos)
		if err != nil {
			return err
		}
		r.pos = next
		r.currentPosition += TermPos(gap)
		r.remainingPosns--
	} else {
		if r.remainingDocs == 0 {
			r.done = true
			return nil
		}
		if err := r.decodeDocHeader(); err != nil {
			return err
		}
		r.remainingPosns = uint64(r.currentTermFreq) - 1
		r.remainingDocs--
	}
	r.done = r.remainingPosns == 0 && r.remainingDocs == 0
	return nil
}

// ReadNextDoc advances to the next document boundary, discarding any
// remaining positions of the current document. In plain mode it behaves
// exactly like ReadEntry.
func (r *PostingReader) ReadNextDoc() error {
	if !r.positional {
		return r.ReadEntry()
	}
	if r.remainingDocs == 0 {
		return ErrNoMoreDocs
	}
	// Skip the remaining positions of the current document without
	// decoding each one individually would require knowing their encoded
	// length; we decode-and-discard to keep the cursor consistent.
	for r.remainingPosns > 0 {
		_, next, err := DecodeVarbyte(r.buf, r.pos)
		if err != nil {
			return err
		}
		r.pos = next
		r.remainingPosns--
	}
	if err := r.decodeDocHeader(); err != nil {
		return err
	}
	r.remainingPosns = uint64(r.currentTermFreq) - 1
	r.remainingDocs--
	r.done = r.remainingPosns == 0 && r.remainingDocs == 0
	return nil
}
