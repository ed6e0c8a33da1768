// SPDX-License-Identifier: MPL-2.0

package mavenrepo

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// unstableMarkers classify a version as a pre-release when contained in its
// lower-cased form.
var unstableMarkers = []string{"alpha", "-b", "beta", "cr", "ea", "m", "rc", "snapshot"}

// IsStable reports whether a version is a release. Maven qualifiers such as
// "-jre" are not pre-releases, so only the marker list decides.
func IsStable(version string) bool {
	lc := strings.ToLower(version)
	for _, marker := range unstableMarkers {
		if strings.Contains(lc, marker) {
			return false
		}
	}
	return version != ""
}

// Compare orders two versions. Versions that parse as semantic versions are
// compared with semver; otherwise numeric segments are compared one by one.
func Compare(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return compareSegments(a, b)
}

// LatestStable returns the highest stable version.
func LatestStable(versions []string) (string, bool) {
	var best string
	for _, v := range versions {
		if !IsStable(v) {
			continue
		}
		if best == "" || Compare(v, best) > 0 {
			best = v
		}
	}
	return best, best != ""
}

func compareSegments(a, b string) int {
	split := func(s string) []string {
		return strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == '-' || r == '_' })
	}
	sa, sb := split(a), split(b)
	for i := 0; i < len(sa) || i < len(sb); i++ {
		var x, y string
		if i < len(sa) {
			x = sa[i]
		}
		if i < len(sb) {
			y = sb[i]
		}
		nx, errX := strconv.Atoi(x)
		ny, errY := strconv.Atoi(y)
		switch {
		case x == y:
			continue
		case errX == nil && errY == nil:
			if nx != ny {
				if nx < ny {
					return -1
				}
				return 1
			}
		case x == "":
			return -1
		case y == "":
			return 1
		case errX == nil:
			return 1
		case errY == nil:
			return -1
		default:
			return strings.Compare(x, y)
		}
	}
	return 0
}
