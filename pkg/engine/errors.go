package engine

import (
	"github.com/sanonone/beliefdb/pkg/core"
	"github.com/sanonone/beliefdb/pkg/inference"
)

// Error kinds surfaced by the engine. The structural ones originate in
// pkg/core and the query ones in pkg/inference; they are re-exported here so
// front ends only need errors.Is checks against one package.
var (
	ErrUnknownNode            = core.ErrUnknownNode
	ErrEdgeRejected           = core.ErrEdgeRejected
	ErrInconsistentParentLink = core.ErrInconsistentParentLink
	ErrInvalidQuery           = inference.ErrInvalidQuery
	ErrInvalidEvidence        = inference.ErrInvalidEvidence
	ErrUnknownStrategy        = inference.ErrUnknownStrategy
)
