// Package domain holds DTOs for mappings http and service contracts
package domain

import "github.com/judell/word-replacer/internal/core/wordmap"

// Document replaces the whole configuration, like the popup's Save
type Document struct {
	WordMappings   wordmap.Mappings `json:"wordMappings" validate:"max=10000"`
	WordExceptions []string         `json:"wordExceptions" validate:"max=10000,dive,max=1000"`
}

// EntryInput adds or replaces one mapping
type EntryInput struct {
	Target      string `json:"target" validate:"nonblank,max=1000" example:"Musk"`
	Replacement string `json:"replacement" validate:"nonblank,max=1000" example:"someone"`
}

// ExceptionInput adds one protected phrase
type ExceptionInput struct {
	Phrase string `json:"phrase" validate:"nonblank,max=1000" example:"Elon Musk Foundation"`
}

// View is the configuration in effect plus counts
type View struct {
	WordMappings   wordmap.Mappings `json:"wordMappings"`
	WordExceptions []string         `json:"wordExceptions"`
	Targets        int              `json:"targets"`
	Exceptions     int              `json:"exceptions"`
}

// ViewOf renders cfg
func ViewOf(cfg *wordmap.Configuration) View {
	doc := cfg.Document()
	return View{
		WordMappings:   doc.WordMappings,
		WordExceptions: doc.WordExceptions,
		Targets:        len(doc.WordMappings),
		Exceptions:     len(doc.WordExceptions),
	}
}
