package formats

import (
	"encoding/json"
	"io"
	"time"

	"classmetrics/internal/engine/record"
	"classmetrics/internal/shared/util"
)

// RunInfo is the run metadata written alongside the records.
type RunInfo struct {
	ID        string    `json:"id,omitempty"`
	Project   string    `json:"project,omitempty"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Files     int       `json:"files"`
}

type classDoc struct {
	*record.ClassRecord
	Modifiers []string     `json:"modifiers"`
	Methods   []methodDoc  `json:"methods"`
	Coupling  []couplingTo `json:"coupling,omitempty"`
}

type methodDoc struct {
	*record.MethodRecord
	Modifiers []string `json:"modifiers"`
}

type couplingTo struct {
	Class      string   `json:"class"`
	Categories []string `json:"categories"`
}

type fileErrorDoc struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type document struct {
	Run     RunInfo        `json:"run"`
	Classes []classDoc     `json:"classes"`
	Errors  []fileErrorDoc `json:"errors"`
}

// CategoryLookup returns, for a class record, the coupling categories of
// each type it references. It may be nil.
type CategoryLookup func(c *record.ClassRecord) map[string][]string

// WriteJSON writes every class with its nested methods, the file errors,
// and the run metadata as one indented document.
func WriteJSON(w io.Writer, run RunInfo, classes []*record.ClassRecord, errs []record.FileError, categories CategoryLookup) error {
	doc := document{
		Run:     run,
		Classes: make([]classDoc, 0, len(classes)),
		Errors:  make([]fileErrorDoc, 0, len(errs)),
	}
	for _, c := range classes {
		cd := classDoc{ClassRecord: c, Modifiers: c.Modifiers.Words()}
		for _, m := range c.MethodRecords() {
			cd.Methods = append(cd.Methods, methodDoc{MethodRecord: m, Modifiers: m.Modifiers.Words()})
		}
		if categories != nil {
			byType := categories(c)
			for _, to := range util.SortedStringKeys(byType) {
				cd.Coupling = append(cd.Coupling, couplingTo{Class: to, Categories: byType[to]})
			}
		}
		doc.Classes = append(doc.Classes, cd)
	}
	for _, fe := range errs {
		doc.Errors = append(doc.Errors, fileErrorDoc{Path: fe.Path, Error: fe.Err.Error()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
