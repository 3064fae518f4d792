// Package spatial holds the small amount of 3D math the bridge needs to
// describe object placement: vectors, quaternions and the conversion to
// Euler angles used on the wire.
package spatial

// Vec3 represents a 3D vector
type Vec3 struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
	Z float64 `json:"Z"`
}

// Quaternion represents a rotational orientation as exposed by host
// applications. W is the scalar component.
type Quaternion struct {
	X float64
	Y float64
	Z float64
	W float64
}

// One returns a uniform scale vector.
func One() Vec3 {
	return Vec3{X: 1, Y: 1, Z: 1}
}
