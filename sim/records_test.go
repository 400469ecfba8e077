package sim

import "testing"

func TestRecordKeyRoundTrip(t *testing.T) {
	key := RecordKey("CC", 1600, Turf)
	if key != "CC|1600|TURF" {
		t.Fatalf("key %q", key)
	}
	cc, dist, surf, err := ParseRecordKey(key)
	if err != nil {
		t.Fatal(err)
	}
	if cc != "CC" || dist != 1600 || surf != Turf {
		t.Fatalf("parsed %s %d %s", cc, dist, surf)
	}

	for _, bad := range []string{"CC|1600", "CC|abc|TURF", ""} {
		if _, _, _, err := ParseRecordKey(bad); err == nil {
			t.Errorf("malformed key %q accepted", bad)
		}
	}
}

func TestRecordEnsure(t *testing.T) {
	tbl := RecordTable{}
	e := tbl.Ensure("CC", 1600, Turf, 95.0, "N/A")
	if e.TimeSeconds != 95.0 {
		t.Fatalf("installed %v", e.TimeSeconds)
	}
	// Existing entry wins over a new default.
	e = tbl.Ensure("CC", 1600, Turf, 90.0, "Other")
	if e.TimeSeconds != 95.0 || e.Holder != "N/A" {
		t.Fatalf("ensure replaced existing entry: %+v", e)
	}
}

func TestRecordUpdateIfBroken(t *testing.T) {
	tbl := RecordTable{}

	// Absent key installs and reports broken.
	broken, e := tbl.UpdateIfBroken("CC", 1600, Turf, 95.0, "First")
	if !broken || e.Holder != "First" {
		t.Fatalf("fresh install: broken=%v entry=%+v", broken, e)
	}

	// Inside the epsilon margin: stands.
	broken, e = tbl.UpdateIfBroken("CC", 1600, Turf, 94.95, "Close")
	if broken || e.Holder != "First" {
		t.Fatalf("epsilon breach: broken=%v entry=%+v", broken, e)
	}

	// Clearly faster: falls.
	broken, e = tbl.UpdateIfBroken("CC", 1600, Turf, 94.5, "Second")
	if !broken || e.Holder != "Second" || e.TimeSeconds != 94.5 {
		t.Fatalf("clean break: broken=%v entry=%+v", broken, e)
	}

	// Slower never replaces.
	broken, e = tbl.UpdateIfBroken("CC", 1600, Turf, 99.0, "Slow")
	if broken || e.TimeSeconds != 94.5 {
		t.Fatalf("record regressed: broken=%v entry=%+v", broken, e)
	}
}

func TestSurfacesByCourse(t *testing.T) {
	tbl := RecordTable{}
	tbl.Ensure("CC", 1600, Turf, 95.0, "N/A")
	tbl.Ensure("CC", 1600, Dirt, 98.0, "N/A")
	tbl.Ensure("EC", 2000, Turf, 120.0, "N/A")

	by := tbl.SurfacesByCourse()
	if got := len(by[surfaceKey("CC", 1600)]); got != 2 {
		t.Fatalf("CC 1600 surfaces: %d", got)
	}
	if got := by[surfaceKey("EC", 2000)]; len(got) != 1 || got[0] != Turf {
		t.Fatalf("EC 2000 surfaces: %v", got)
	}
}
