package spatial

import "math"

// DegPerRad converts radians to degrees when multiplied.
const DegPerRad = 180.0 / math.Pi

// EulerDegrees decomposes a quaternion into Euler angles in degrees,
// ordered roll (X), pitch (Y), yaw (Z). Manifests carry Euler angles so
// consumers never depend on a host's native rotation representation.
func EulerDegrees(q Quaternion) Vec3 {
	// roll: rotation about X
	sinr := 2 * (q.W*q.X + q.Y*q.Z)
	cosr := 1 - 2*(q.X*q.X+q.Y*q.Y)
	roll := math.Atan2(sinr, cosr)

	// pitch: rotation about Y, clamped at the poles
	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	var pitch float64
	if sinp >= 1 {
		pitch = math.Pi / 2
	} else if sinp <= -1 {
		pitch = -math.Pi / 2
	} else {
		pitch = math.Asin(sinp)
	}

	// yaw: rotation about Z
	siny := 2 * (q.W*q.Z + q.X*q.Y)
	cosy := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	yaw := math.Atan2(siny, cosy)

	return Vec3{
		X: roll * DegPerRad,
		Y: pitch * DegPerRad,
		Z: yaw * DegPerRad,
	}
}

// Identity returns the identity rotation.
func Identity() Quaternion {
	return Quaternion{W: 1}
}
