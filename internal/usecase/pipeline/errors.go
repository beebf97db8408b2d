package pipeline

import "errors"

// ErrMissingCollaborator indicates the service was built without a required
// collaborator. It is the only error a run returns.
var ErrMissingCollaborator = errors.New("pipeline collaborator is nil")
