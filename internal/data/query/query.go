// Package query implements a small selection language over class records:
//
//	SELECT classes [WHERE cond [AND cond ...]]
//
// where cond is `field op number`, `field = 'text'`, `field != 'text'` or
// `field CONTAINS 'text'`.
package query

import (
	"regexp"
	"strconv"
	"strings"

	"classmetrics/internal/core/errors"
	"classmetrics/internal/engine/record"
)

var (
	selectRE       = regexp.MustCompile(`(?i)^\s*SELECT\s+classes(?:\s+WHERE\s+(.+))?\s*$`)
	andSplitRE     = regexp.MustCompile(`(?i)\s+AND\s+`)
	numericCondRE  = regexp.MustCompile(`(?i)^\s*([a-z_]+)\s*(>=|<=|!=|=|>|<)\s*(-?[0-9]+)\s*$`)
	containsCondRE = regexp.MustCompile(`(?i)^\s*([a-z_]+)\s+CONTAINS\s+['"]([^'"]+)['"]\s*$`)
	stringCondRE   = regexp.MustCompile(`(?i)^\s*([a-z_]+)\s*(=|!=)\s*['"]([^'"]+)['"]\s*$`)
)

var numericFields = map[string]func(*record.ClassRecord) int{
	"loc":          func(c *record.ClassRecord) int { return c.LOC },
	"wmc":          func(c *record.ClassRecord) int { return c.WMC },
	"cbo":          func(c *record.ClassRecord) int { return c.CBO },
	"cbo_modified": func(c *record.ClassRecord) int { return c.CBOModified },
	"fan_in":       func(c *record.ClassRecord) int { return c.FanIn },
	"fan_out":      func(c *record.ClassRecord) int { return c.FanOut },
	"rfc":          func(c *record.ClassRecord) int { return c.RFC },
	"lcom":         func(c *record.ClassRecord) int { return c.LCOM },
	"noc":          func(c *record.ClassRecord) int { return c.NOC },
	"nosi":         func(c *record.ClassRecord) int { return c.NOSI },
	"max_nested":   func(c *record.ClassRecord) int { return c.MaxNestedBlocks },
	"methods":      func(c *record.ClassRecord) int { return c.Methods.Total },
	"fields":       func(c *record.ClassRecord) int { return c.Fields.Total },
}

var stringFields = map[string]func(*record.ClassRecord) string{
	"class": func(c *record.ClassRecord) string { return c.ClassName },
	"file":  func(c *record.ClassRecord) string { return c.File },
	"type":  func(c *record.ClassRecord) string { return c.Type },
}

type Query struct {
	Conditions []Condition
}

type Condition struct {
	Field  string
	Op     string
	IntVal int
	StrVal string
	IsInt  bool
}

func Parse(raw string) (Query, error) {
	matches := selectRE.FindStringSubmatch(strings.TrimSpace(raw))
	if len(matches) == 0 {
		return Query{}, errors.New(errors.CodeValidationError, "invalid query: expected SELECT classes [WHERE ...]")
	}

	var q Query
	where := strings.TrimSpace(matches[1])
	if where == "" {
		return q, nil
	}

	parts := andSplitRE.Split(where, -1)
	q.Conditions = make([]Condition, 0, len(parts))
	for _, part := range parts {
		cond, err := parseCondition(part)
		if err != nil {
			return Query{}, err
		}
		q.Conditions = append(q.Conditions, cond)
	}
	return q, nil
}

func parseCondition(raw string) (Condition, error) {
	if match := numericCondRE.FindStringSubmatch(raw); len(match) == 4 {
		field := strings.ToLower(match[1])
		if _, ok := numericFields[field]; !ok {
			return Condition{}, errors.Newf(errors.CodeValidationError, "unknown numeric field %q", field)
		}
		value, err := strconv.Atoi(match[3])
		if err != nil {
			return Condition{}, errors.Wrap(err, errors.CodeValidationError, "invalid numeric value "+match[3])
		}
		return Condition{Field: field, Op: match[2], IntVal: value, IsInt: true}, nil
	}

	if match := containsCondRE.FindStringSubmatch(raw); len(match) == 3 {
		field := strings.ToLower(match[1])
		if _, ok := stringFields[field]; !ok {
			return Condition{}, errors.Newf(errors.CodeValidationError, "unknown text field %q", field)
		}
		return Condition{Field: field, Op: "contains", StrVal: match[2]}, nil
	}

	if match := stringCondRE.FindStringSubmatch(raw); len(match) == 4 {
		field := strings.ToLower(match[1])
		if _, ok := stringFields[field]; !ok {
			return Condition{}, errors.Newf(errors.CodeValidationError, "unknown text field %q", field)
		}
		return Condition{Field: field, Op: match[2], StrVal: match[3]}, nil
	}

	return Condition{}, errors.Newf(errors.CodeValidationError, "invalid condition %q", strings.TrimSpace(raw))
}

// Match reports whether c satisfies every condition.
func (q Query) Match(c *record.ClassRecord) bool {
	for _, cond := range q.Conditions {
		if !cond.match(c) {
			return false
		}
	}
	return true
}

// Filter keeps the matching classes in their original order.
func (q Query) Filter(classes []*record.ClassRecord) []*record.ClassRecord {
	out := make([]*record.ClassRecord, 0, len(classes))
	for _, c := range classes {
		if q.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

func (cond Condition) match(c *record.ClassRecord) bool {
	if cond.IsInt {
		v := numericFields[cond.Field](c)
		switch cond.Op {
		case ">":
			return v > cond.IntVal
		case ">=":
			return v >= cond.IntVal
		case "<":
			return v < cond.IntVal
		case "<=":
			return v <= cond.IntVal
		case "=":
			return v == cond.IntVal
		case "!=":
			return v != cond.IntVal
		}
		return false
	}

	v := stringFields[cond.Field](c)
	switch cond.Op {
	case "contains":
		return strings.Contains(v, cond.StrVal)
	case "=":
		return v == cond.StrVal
	case "!=":
		return v != cond.StrVal
	}
	return false
}
