package mathutil

// Vec4 is a homogeneous position (x, y, z, w).
type Vec4 [4]float64

// Point2 lifts a 2-component position: z=0, w=1.
func Point2(x, y float64) Vec4 {
	return Vec4{x, y, 0, 1}
}

// Point3 lifts a 3-component position: w=1.
func Point3(x, y, z float64) Vec4 {
	return Vec4{x, y, z, 1}
}
