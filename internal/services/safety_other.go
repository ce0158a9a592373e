//go:build !linux

// File: internal/services/safety_other.go
package services

// IsMountedWritable always reports false on platforms without a kernel
// mount table to inspect. The tool targets image files there; sweeping a
// raw device should happen on Linux where the check is enforced.
func IsMountedWritable(path string) (bool, error) {
	return false, nil
}
