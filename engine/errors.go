package engine

import (
	"errors"
	"fmt"
)

// ErrContractViolation is matched by every *ContractViolation via errors.Is.
var ErrContractViolation = errors.New("contract violation")

// ContractViolation reports a caller bug: a bad location index, an
// out-of-range seed, or a broken internal invariant. It is never used for
// illegal moves, which are reported as a false result.
type ContractViolation struct {
	Op     string
	Detail string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("engine: contract violation in %s: %s", e.Op, e.Detail)
}

func (e *ContractViolation) Is(target error) bool { return target == ErrContractViolation }

// violate panics with a *ContractViolation.
func violate(op, format string, args ...any) {
	panic(&ContractViolation{Op: op, Detail: fmt.Sprintf(format, args...)})
}
