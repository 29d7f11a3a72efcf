package query

import (
	"testing"

	"classmetrics/internal/core/errors"
	"classmetrics/internal/engine/record"
)

func TestParse(t *testing.T) {
	q, err := Parse(`SELECT classes WHERE wmc > 10 AND class CONTAINS "Service"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(q.Conditions) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(q.Conditions))
	}
	if !q.Conditions[0].IsInt || q.Conditions[0].Field != "wmc" || q.Conditions[0].IntVal != 10 {
		t.Fatalf("unexpected first condition: %+v", q.Conditions[0])
	}
	if q.Conditions[1].Op != "contains" || q.Conditions[1].StrVal != "Service" {
		t.Fatalf("unexpected second condition: %+v", q.Conditions[1])
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{
		"DELETE FROM classes",
		"SELECT classes WHERE depth > 2",
		"SELECT classes WHERE wmc CONTAINS 'x'",
		"SELECT classes WHERE wmc >",
	} {
		if _, err := Parse(raw); !errors.IsCode(err, errors.CodeValidationError) {
			t.Fatalf("%q: expected validation error, got %v", raw, err)
		}
	}
}

func TestFilter(t *testing.T) {
	service := record.NewClass("src/p/Service.java", "p.Service", record.TypeClass, 0, 3)
	service.WMC = 12
	service.CBO = 4
	store := record.NewClass("src/p/Store.java", "p.Store", record.TypeInterface, 0, 1)
	store.WMC = 2
	store.FanIn = 3

	classes := []*record.ClassRecord{service, store}
	cases := []struct {
		query string
		want  []string
	}{
		{"SELECT classes", []string{"p.Service", "p.Store"}},
		{"select classes where wmc >= 12", []string{"p.Service"}},
		{"SELECT classes WHERE fan_in > 0 AND type = 'interface'", []string{"p.Store"}},
		{"SELECT classes WHERE type != 'interface' AND cbo < 4", nil},
		{"SELECT classes WHERE file CONTAINS 'src/p'", []string{"p.Service", "p.Store"}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			q, err := Parse(tc.query)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			got := q.Filter(classes)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %d classes", tc.want, len(got))
			}
			for i, c := range got {
				if c.ClassName != tc.want[i] {
					t.Fatalf("expected %v at %d, got %s", tc.want[i], i, c.ClassName)
				}
			}
		})
	}
}
