package record

import "sort"

// FileError reports a file that could not be analysed.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e FileError) Unwrap() error { return e.Err }

// Result collects the class records finalized while traversing one file.
// A record whose identity is already present is dropped.
type Result struct {
	Path    string
	index   map[Key]int
	classes []*ClassRecord
}

func NewResult(path string) *Result {
	return &Result{Path: path, index: make(map[Key]int)}
}

func (r *Result) Add(c *ClassRecord) {
	k := c.Key()
	if _, ok := r.index[k]; ok {
		return
	}
	r.index[k] = len(r.classes)
	r.classes = append(r.classes, c)
}

// Classes returns records in the order their scopes closed.
func (r *Result) Classes() []*ClassRecord {
	out := make([]*ClassRecord, len(r.classes))
	copy(out, r.classes)
	return out
}

func (r *Result) Len() int { return len(r.classes) }

// SortClasses orders records by file then class name.
func SortClasses(classes []*ClassRecord) {
	sort.SliceStable(classes, func(i, j int) bool {
		if classes[i].File != classes[j].File {
			return classes[i].File < classes[j].File
		}
		return classes[i].ClassName < classes[j].ClassName
	})
}
