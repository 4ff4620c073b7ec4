package session

import (
	"errors"
	"fmt"
)

// InfrastructureError marks failures of the browser/session machinery
// itself (launch, context creation, lost connection), as opposed to
// test assertion failures. The orchestrator reports the two classes
// separately.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("infrastructure error during %s: %s", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// IsInfrastructure reports whether err is an InfrastructureError.
func IsInfrastructure(err error) bool {
	var infraErr *InfrastructureError
	return errors.As(err, &infraErr)
}
