package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeParse, "no tree produced")
		if err.Error() != "[PARSE_ERROR] no tree produced" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("unexpected node")
		err := Wrap(original, CodeTraversal, "walk failed")
		expected := "[TRAVERSAL_ERROR] walk failed: unexpected node"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to the original")
		}
	})

	t.Run("WrapNil", func(t *testing.T) {
		if Wrap(nil, CodeInternal, "nothing") != nil {
			t.Error("expected Wrap(nil) to return nil")
		}
	})

	t.Run("ContextIsSorted", func(t *testing.T) {
		err := New(CodeConstruction, "plugin failed")
		err = AddContext(err, CtxMetric, "lcom")
		err = AddContext(err, CtxClass, "a.B")
		expected := "[CONSTRUCTION_ERROR] plugin failed {class=a.B metric=lcom}"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("AddContextOnPlainError", func(t *testing.T) {
		err := AddContext(errors.New("boom"), CtxPath, "A.java")
		if !IsCode(err, CodeInternal) {
			t.Errorf("expected plain error to become internal, got %v", CodeOf(err))
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeValidationError, "bad workers"))
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to see through fmt wrapping")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to reject other codes")
		}
	})

	t.Run("CodeOfPlain", func(t *testing.T) {
		if CodeOf(errors.New("x")) != CodeInternal {
			t.Error("expected CodeInternal for plain errors")
		}
	})
}
