//go:build linux

// File: internal/services/safety_linux.go
package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const mountTablePath = "/proc/self/mounts"

// mountTableEntry is one line of the kernel mount table
type mountTableEntry struct {
	source     string
	mountPoint string
	fsType     string
	options    []string
}

// writable reports whether the mount grants write access
func (e mountTableEntry) writable() bool {
	for _, opt := range e.options {
		if opt == "ro" {
			return false
		}
	}
	return true
}

// parseMountTable parses /proc/self/mounts content. Malformed lines are
// skipped.
func parseMountTable(data string) []mountTableEntry {
	var entries []mountTableEntry
	for _, line := range strings.Split(data, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		entries = append(entries, mountTableEntry{
			source:     fields[0],
			mountPoint: fields[1],
			fsType:     fields[2],
			options:    strings.Split(fields[3], ","),
		})
	}
	return entries
}

// IsMountedWritable reports whether the device or image at path is currently
// mounted with write access somewhere on the system. A read-only mount does
// not block the sweep: rewriting free blocks cannot disturb a reader that
// never follows free-space pointers.
func IsMountedWritable(path string) (bool, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	var st unix.Stat_t
	if err := unix.Stat(resolved, &st); err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	isBlockDevice := st.Mode&unix.S_IFMT == unix.S_IFBLK

	data, err := os.ReadFile(mountTablePath)
	if err != nil {
		return false, fmt.Errorf("failed to read mount table: %w", err)
	}

	for _, entry := range parseMountTable(string(data)) {
		if !matchesSource(entry.source, resolved, uint64(st.Rdev), isBlockDevice) {
			continue
		}
		if entry.writable() {
			return true, nil
		}
	}
	return false, nil
}

// matchesSource reports whether a mount source refers to the same device as
// the resolved target path. Device nodes are compared by device number so
// /dev/disk/by-uuid style aliases still match.
func matchesSource(source, resolved string, rdev uint64, isBlockDevice bool) bool {
	if source == resolved {
		return true
	}
	if !isBlockDevice || !strings.HasPrefix(source, "/dev/") {
		return false
	}

	var st unix.Stat_t
	if err := unix.Stat(source, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFBLK && uint64(st.Rdev) == rdev
}
