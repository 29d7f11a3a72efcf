package traversal

import (
	"classmetrics/internal/engine/metric"
	"classmetrics/internal/engine/record"
)

// classFrame is one open class-like scope. Its method frames form a stack of
// their own; only the top one receives nodes.
type classFrame struct {
	record  *record.ClassRecord
	metrics []metric.ClassMetric
	methods []methodFrame
}

type methodFrame struct {
	record  *record.MethodRecord
	metrics []metric.MethodMetric
}

// scopes is the arena of open class frames, innermost last.
type scopes struct {
	frames []classFrame
}

func (s *scopes) empty() bool { return len(s.frames) == 0 }

func (s *scopes) depth() int { return len(s.frames) }

// class returns the innermost open class, or nil.
func (s *scopes) class() *classFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

// method returns the innermost open method of the innermost class, or nil.
func (s *scopes) method() *methodFrame {
	c := s.class()
	if c == nil || len(c.methods) == 0 {
		return nil
	}
	return &c.methods[len(c.methods)-1]
}

func (s *scopes) pushClass(f classFrame) { s.frames = append(s.frames, f) }

func (s *scopes) popClass() classFrame {
	f := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = classFrame{}
	s.frames = s.frames[:len(s.frames)-1]
	return f
}

func (s *scopes) pushMethod(f methodFrame) {
	c := s.class()
	c.methods = append(c.methods, f)
}

func (s *scopes) popMethod() methodFrame {
	c := s.class()
	f := c.methods[len(c.methods)-1]
	c.methods[len(c.methods)-1] = methodFrame{}
	c.methods = c.methods[:len(c.methods)-1]
	return f
}

// visit forwards n to the innermost class and, when one is open, its
// innermost method.
func (s *scopes) visit(n nodeEvent) {
	c := s.class()
	if c == nil {
		return
	}
	for _, m := range c.metrics {
		n.deliver(m)
	}
	if mf := s.method(); mf != nil {
		for _, m := range mf.metrics {
			n.deliver(m)
		}
	}
}
