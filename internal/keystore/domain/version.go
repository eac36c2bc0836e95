package domain

import (
	"strconv"
	"strings"
)

// DefaultVersion is the version given to v2 records stored without one.
const DefaultVersion = "1"

// versionClass ranks versions before they are compared within a class.
type versionClass int

const (
	versionClassEmpty versionClass = iota
	versionClassText
	versionClassNumeric
)

func classifyVersion(v string) (versionClass, uint64) {
	if v == "" {
		return versionClassEmpty, 0
	}
	if n, err := strconv.ParseUint(v, 10, 64); err == nil {
		return versionClassNumeric, n
	}
	return versionClassText, 0
}

// CompareVersions orders two record versions and returns -1, 0 or +1. The order
// is total: the empty version of a v1 record sorts lowest, then non-numeric
// versions lexicographically, then unsigned decimal versions numerically
// ("10" > "9"). Numeric ties such as "007" and "7" fall back to lexicographic order.
func CompareVersions(a, b string) int {
	if a == b {
		return 0
	}

	aClass, an := classifyVersion(a)
	bClass, bn := classifyVersion(b)
	switch {
	case aClass < bClass:
		return -1
	case aClass > bClass:
		return 1
	}

	if aClass == versionClassNumeric {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
	}

	return strings.Compare(a, b)
}

// LatestItem returns the item with the highest version, or false if items is empty.
// The result does not depend on the order of items.
func LatestItem(items []Item) (Item, bool) {
	if len(items) == 0 {
		return Item{}, false
	}

	latest := items[0]
	for _, item := range items[1:] {
		if CompareVersions(item.Version, latest.Version) > 0 {
			latest = item
		}
	}
	return latest, true
}
