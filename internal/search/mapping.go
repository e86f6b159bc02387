package search

import (
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

func buildIndexMapping() *mapping.IndexMappingImpl {
	idx := mapping.NewIndexMapping()
	idx.DefaultAnalyzer = standard.Name

	text := mapping.NewTextFieldMapping()
	text.Store = true
	text.Index = true
	text.Analyzer = standard.Name
	text.IncludeInAll = true
	text.IncludeTermVectors = true // needed for accurate highlight fragments

	recording := mapping.NewDocumentMapping()
	recording.Dynamic = false
	recording.AddFieldMappingsAt(fieldFilename, text)
	recording.AddFieldMappingsAt(fieldTranscript, text)
	idx.DefaultMapping = recording

	return idx
}
