// Package geometry holds the stateless plane and rotation helpers shared by
// the detector, tracker and trajectory solver: polygon areas, angle
// normalisation and unwrapping, and conversions between rotation matrices,
// euler angles, quaternions and angle-axis form.
package geometry
