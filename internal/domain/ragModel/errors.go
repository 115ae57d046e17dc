package ragModel

import "errors"

// The closed set of failure kinds components wrap with %w. Handlers map
// them to HTTP codes; everything below a kind stays in the error chain.
var (
	ErrValidation              = errors.New("validation failure")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrNotFound                = errors.New("not found")
	ErrPipelineFailure         = errors.New("pipeline failure")
)
