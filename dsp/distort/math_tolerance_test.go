//go:build !fastmath

package distort

// curveTolerance bounds the error of closed-form curve checks.
const curveTolerance = 1e-9
