package components

// Entity is a single simulated particle. It is mutated in place every tick
// by the renderer that owns it.
type Entity struct {
	Position Vector
	Velocity Vector
}

// NewEntity creates an entity at pos with zero velocity.
func NewEntity(pos Vector) *Entity {
	return &Entity{Position: pos}
}

// NewEntityWithVelocity creates an entity at pos moving with vel.
func NewEntityWithVelocity(pos, vel Vector) *Entity {
	return &Entity{Position: pos, Velocity: vel}
}
