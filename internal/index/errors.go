package index

import "errors"

// Sentinel errors for index operations. Check with errors.Is.
var (
	// ErrCollectionEmpty indicates the collection has no published
	// generation, i.e. the datasource has never been scanned (or a scan
	// has not finished yet).
	ErrCollectionEmpty = errors.New("collection has no published generation")
)
