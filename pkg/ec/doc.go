// Package ec provides the short-Weierstrass curve arithmetic needed by the
// Dual-EC generator: the affine group law with a Jacobian scalar
// multiplication, point recovery from an x-coordinate, random points, and
// quadratic twists.
//
// It is not a general purpose or side-channel hardened curve library. Scalar
// multiplication branches on key bits and big.Int arithmetic is variable
// time, which is acceptable for demonstrating the backdoor but not for
// handling real secrets.
package ec
