package history

import "time"

// SchemaVersion is the latest migration this build knows how to apply.
const SchemaVersion = 2

// Run is the header row of one analysis run.
type Run struct {
	ID        string
	Project   string
	StartedAt time.Time
	Duration  time.Duration
	Files     int
	Classes   int
	Methods   int
	Errors    int
}

// ClassRow is the persisted subset of a class record.
type ClassRow struct {
	File        string
	Class       string
	Kind        string
	ContentHash string
	LOC         int
	WMC         int
	CBO         int
	CBOModified int
	FanIn       int
	FanOut      int
	RFC         int
	LCOM        int
	NOC         int
	NOSI        int
	MaxNested   int
}

// MethodRow is the persisted subset of a method record.
type MethodRow struct {
	Class     string
	Method    string
	Line      int
	LOC       int
	WMC       int
	CBO       int
	RFC       int
	MaxNested int
	Params    int
}

// Snapshot is everything SaveRun writes for one run.
type Snapshot struct {
	Run     Run
	Classes []ClassRow
	Methods []MethodRow
}

// TrendPoint is one class's headline metrics in one run, with the change
// since the previous point of the same trend.
type TrendPoint struct {
	RunID     string
	StartedAt time.Time
	WMC       int
	CBO       int
	RFC       int
	LCOM      int
	LOC       int

	DeltaWMC  int
	DeltaCBO  int
	DeltaRFC  int
	DeltaLCOM int
}

// withDeltas fills the delta fields of points ordered oldest first.
func withDeltas(points []TrendPoint) []TrendPoint {
	for i := 1; i < len(points); i++ {
		prev := points[i-1]
		points[i].DeltaWMC = points[i].WMC - prev.WMC
		points[i].DeltaCBO = points[i].CBO - prev.CBO
		points[i].DeltaRFC = points[i].RFC - prev.RFC
		points[i].DeltaLCOM = points[i].LCOM - prev.LCOM
	}
	return points
}
