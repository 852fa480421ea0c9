package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// VersionInfo represents parsed package version components
type VersionInfo struct {
	Major    uint16
	Minor    uint16
	Build    uint16
	Revision uint16
}

// String renders the version in canonical four-part form.
func (v VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// ParseVersion parses a package version string (e.g., "1.4.0.0") into components.
// Package versions carry exactly four numeric parts, each within the
// 16-bit range.
func ParseVersion(version string) (*VersionInfo, error) {
	if version == "" {
		return nil, fmt.Errorf("version string cannot be empty")
	}

	parts := strings.Split(version, ".")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid version format: %s (expected Major.Minor.Build.Revision)", version)
	}

	numbers := make([]uint16, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid version component: %s", part)
		}
		numbers[i] = uint16(n)
	}

	return &VersionInfo{
		Major:    numbers[0],
		Minor:    numbers[1],
		Build:    numbers[2],
		Revision: numbers[3],
	}, nil
}
