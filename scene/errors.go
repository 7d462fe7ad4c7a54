package scene

import "github.com/pkg/errors"

// Sentinel causes for rejected documents. Errors returned by this package
// wrap them with context; match with errors.Is or errors.Cause.
var (
	ErrUnknownShapeKind = errors.New("unknown shape kind")
	ErrUnknownJointKind = errors.New("unknown joint kind")
	ErrUnknownBodyType  = errors.New("unknown body type")
	ErrBadReference     = errors.New("bad reference")
	ErrGearChain        = errors.New("gear joint references a gear joint")
)
