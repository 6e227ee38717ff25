package physics

import "errors"

var (
	// ErrInvalidAtom indicates an atom that cannot be built, e.g. no protons.
	ErrInvalidAtom = errors.New("physics: invalid atom")

	// ErrInvalidParams indicates model constants outside their valid range.
	ErrInvalidParams = errors.New("physics: invalid parameters")

	// ErrUnknownParticle indicates an ID that is not part of the world.
	ErrUnknownParticle = errors.New("physics: unknown particle")
)
