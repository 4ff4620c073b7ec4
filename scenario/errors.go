package scenario

import (
	"errors"
	"fmt"

	"github.com/webshop-qa/storefront-e2e/pages"
	"github.com/webshop-qa/storefront-e2e/session"
)

// AssertionError indicates the application misbehaved: an expectation
// about visible state did not hold while the automation itself worked.
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string {
	return e.Msg
}

func failf(format string, v ...interface{}) error {
	return &AssertionError{Msg: fmt.Sprintf(format, v...)}
}

// FailureKind labels a unit failure in the run report.
type FailureKind string

const (
	FailureKindAssertion       FailureKind = "assertion"
	FailureKindElementNotReady FailureKind = "element_not_ready"
	FailureKindInfrastructure  FailureKind = "infrastructure"
)

// ClassifyFailure maps a unit error onto its failure kind. Session and
// browser level errors win over page-interaction timeouts, everything
// else counts as a failed assertion.
func ClassifyFailure(err error) FailureKind {
	if session.IsInfrastructure(err) {
		return FailureKindInfrastructure
	}
	var notReady *pages.ElementNotReadyError
	if errors.As(err, &notReady) {
		return FailureKindElementNotReady
	}
	return FailureKindAssertion
}
