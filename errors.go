package blaze

import "errors"

// Sentinel errors for the posting store and reader, following the
// teacher's package-level errors.New idiom (see the original ErrNoPostingList
// in index.go).
var (
	ErrMalformedInput = errors.New("blaze: malformed posting data")
	ErrUnknownTerm    = errors.New("blaze: term not present in dictionary")
	ErrReadAfterDone  = errors.New("blaze: read_entry called after reader is done")
	ErrNoMoreDocs     = errors.New("blaze: read_next_doc called with no remaining documents")
)
