package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// RecordBreakEpsilon is the margin, in seconds, by which a record must be
// beaten before it is replaced.
const RecordBreakEpsilon = 0.10

// RecordEntry is the best known time for one (course, distance, surface)
// key and the horse that set it.
type RecordEntry struct {
	TimeSeconds float64
	Holder      string
}

// RecordTable holds national records keyed by course+distance+surface. It
// is explicit owned state: the caller loads it, threads it through racing
// and persists it afterwards. The core never performs I/O on it.
type RecordTable map[string]RecordEntry

// RecordKey builds the canonical course|distance|surface key.
func RecordKey(courseCode string, distance int, surface Surface) string {
	return fmt.Sprintf("%s|%d|%s", courseCode, distance, surface)
}

// ParseRecordKey splits a canonical key back into its parts.
func ParseRecordKey(key string) (courseCode string, distance int, surface Surface, err error) {
	parts := strings.Split(key, "|")
	if len(parts) != 3 {
		return "", 0, "", fmt.Errorf("sim: malformed record key %q", key)
	}
	d, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, "", fmt.Errorf("sim: malformed record key %q: %w", key, err)
	}
	return parts[0], d, Surface(parts[2]), nil
}

// Get returns the record for a key, if present.
func (t RecordTable) Get(courseCode string, distance int, surface Surface) (RecordEntry, bool) {
	e, ok := t[RecordKey(courseCode, distance, surface)]
	return e, ok
}

// Ensure returns the existing record or installs the given default.
func (t RecordTable) Ensure(courseCode string, distance int, surface Surface, timeSeconds float64, holder string) RecordEntry {
	k := RecordKey(courseCode, distance, surface)
	if e, ok := t[k]; ok {
		return e
	}
	e := RecordEntry{TimeSeconds: timeSeconds, Holder: holder}
	t[k] = e
	return e
}

// UpdateIfBroken lowers the stored record when the new time beats it by
// more than the epsilon margin. Records only ever decrease. The caller is
// responsible for only invoking this under the designated fastest
// condition for the surface.
func (t RecordTable) UpdateIfBroken(courseCode string, distance int, surface Surface, timeSeconds float64, holder string) (bool, RecordEntry) {
	k := RecordKey(courseCode, distance, surface)
	cur, ok := t[k]
	if !ok {
		e := RecordEntry{TimeSeconds: timeSeconds, Holder: holder}
		t[k] = e
		return true, e
	}
	if timeSeconds < cur.TimeSeconds-RecordBreakEpsilon {
		e := RecordEntry{TimeSeconds: timeSeconds, Holder: holder}
		t[k] = e
		return true, e
	}
	return false, cur
}

// SurfacesByCourse maps (course, distance) to the surfaces the record set
// knows for it; used by schedule surface resolution.
func (t RecordTable) SurfacesByCourse() map[string][]Surface {
	out := make(map[string][]Surface)
	for k := range t {
		cc, dist, surf, err := ParseRecordKey(k)
		if err != nil {
			continue
		}
		sk := surfaceKey(cc, dist)
		found := false
		for _, s := range out[sk] {
			if s == surf {
				found = true
				break
			}
		}
		if !found {
			out[sk] = append(out[sk], surf)
		}
	}
	return out
}
