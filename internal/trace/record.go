// Package trace writes per-tick controller records as CSV and summarizes runs.
package trace

import (
	"github.com/Faultbox/charctl/pkg/math"
)

// Record is one physics tick as seen by the controller.
type Record struct {
	Tick    int     `csv:"tick"`
	Time    float32 `csv:"time"`
	Dt      float32 `csv:"dt"`
	State   string  `csv:"state"`
	Support string  `csv:"support"`
	PosX    float32 `csv:"pos_x"`
	PosY    float32 `csv:"pos_y"`
	PosZ    float32 `csv:"pos_z"`
	VelX    float32 `csv:"vel_x"`
	VelY    float32 `csv:"vel_y"`
	VelZ    float32 `csv:"vel_z"`
}

// Position returns the recorded position.
func (r Record) Position() math.Vec3 {
	return math.Vec3{X: r.PosX, Y: r.PosY, Z: r.PosZ}
}

// Velocity returns the recorded velocity.
func (r Record) Velocity() math.Vec3 {
	return math.Vec3{X: r.VelX, Y: r.VelY, Z: r.VelZ}
}

// SetPosition fills the position columns.
func (r *Record) SetPosition(p math.Vec3) {
	r.PosX, r.PosY, r.PosZ = p.X, p.Y, p.Z
}

// SetVelocity fills the velocity columns.
func (r *Record) SetVelocity(v math.Vec3) {
	r.VelX, r.VelY, r.VelZ = v.X, v.Y, v.Z
}
