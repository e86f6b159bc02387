package search

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

var ErrClosed = errors.New("search index closed")

const (
	fieldFilename   = "original_filename"
	fieldTranscript = "transcript_text"
)

// Index is the derived full-text projection of completed recordings.
// It is never a source of truth; it can always be rebuilt from the store.
type Index struct {
	idx    bleve.Index
	mu     sync.RWMutex
	closed bool
}

// Open opens the index at path, creating it with the recording mapping if absent
func Open(path string) (*Index, error) {
	var idx bleve.Index
	if _, err := os.Stat(path); err == nil {
		i, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("opening search index %s: %w", path, openErr)
		}
		idx = i
	} else if os.IsNotExist(err) {
		i, newErr := bleve.New(path, buildIndexMapping())
		if newErr != nil {
			return nil, fmt.Errorf("creating search index %s: %w", path, newErr)
		}
		idx = i
	} else {
		return nil, err
	}

	return &Index{idx: idx}, nil
}

// OpenInMemory creates a throwaway index, used by tests
func OpenInMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Index{idx: idx}, nil
}

func (i *Index) guard() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return ErrClosed
	}
	return nil
}

// Upsert replaces the entry for a recording. Indexing the same ID again
// overwrites the previous document, so entries are never duplicated.
func (i *Index) Upsert(recordingID uint, filename, transcript string) error {
	if err := i.guard(); err != nil {
		return err
	}
	return i.idx.Index(docID(recordingID), map[string]any{
		fieldFilename:   filename,
		fieldTranscript: transcript,
	})
}

// Remove deletes the entry for a recording. Removing an absent entry is a no-op.
func (i *Index) Remove(recordingID uint) error {
	if err := i.guard(); err != nil {
		return err
	}
	return i.idx.Delete(docID(recordingID))
}

// Has reports whether an entry exists for the recording
func (i *Index) Has(recordingID uint) (bool, error) {
	if err := i.guard(); err != nil {
		return false, err
	}
	doc, err := i.idx.Document(docID(recordingID))
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

// Count returns the number of indexed entries
func (i *Index) Count() (uint64, error) {
	if err := i.guard(); err != nil {
		return 0, err
	}
	return i.idx.DocCount()
}

// Hit is one ranked search result
type Hit struct {
	RecordingID uint
	Score       float64
	Fragments   map[string][]string
}

// Results holds one page of ranked hits
type Results struct {
	Total uint64
	Hits  []Hit
}

// Search runs a ranked match query over filename and transcript text
func (i *Index) Search(term string, from, size int) (*Results, error) {
	if err := i.guard(); err != nil {
		return nil, err
	}

	q := bleve.NewMatchQuery(term)
	req := bleve.NewSearchRequestOptions(q, size, from, false)
	req.Highlight = bleve.NewHighlight()

	res, err := i.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search for %q: %w", term, err)
	}

	results := &Results{Total: res.Total, Hits: make([]Hit, 0, len(res.Hits))}
	for _, h := range res.Hits {
		id, parseErr := strconv.ParseUint(h.ID, 10, 64)
		if parseErr != nil {
			continue
		}
		results.Hits = append(results.Hits, Hit{
			RecordingID: uint(id),
			Score:       h.Score,
			Fragments:   h.Fragments,
		})
	}
	return results, nil
}

// Close closes the underlying index
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true
	return i.idx.Close()
}

func docID(recordingID uint) string {
	return strconv.FormatUint(uint64(recordingID), 10)
}
