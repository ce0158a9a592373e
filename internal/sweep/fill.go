// File: internal/sweep/fill.go
package sweep

// IsUniform reports whether every byte of data equals fill. An empty slice
// is uniform.
func IsUniform(data []byte, fill byte) bool {
	for _, b := range data {
		if b != fill {
			return false
		}
	}
	return true
}
