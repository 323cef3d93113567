package tomasulo

import "testing"

func TestRSTableAllocateUntilFull(t *testing.T) {
	rs := newRSTable(2)
	if !rs.allocate(10, [3]int{0, 0, 0}) {
		t.Fatal("allocate() into empty table should succeed")
	}
	if !rs.allocate(20, [3]int{0, 0, 0}) {
		t.Fatal("second allocate() should succeed")
	}
	if rs.allocate(30, [3]int{0, 0, 0}) {
		t.Fatal("allocate() into a full table should fail")
	}
	if rs.occupied() != 2 {
		t.Errorf("occupied() = %d, want 2", rs.occupied())
	}
}

func TestRSTableFreeReleasesSlot(t *testing.T) {
	rs := newRSTable(1)
	rs.allocate(10, [3]int{0, 0, 0})
	rs.free(10)
	if rs.occupied() != 0 {
		t.Errorf("occupied() after free = %d, want 0", rs.occupied())
	}
	if !rs.allocate(20, [3]int{0, 0, 0}) {
		t.Error("allocate() should succeed again after free")
	}
}

func TestRSTableReadyAndClearTag(t *testing.T) {
	rs := newRSTable(1)
	rs.allocate(10, [3]int{5, 0, 0})
	if rs.ready(0) {
		t.Fatal("entry with an outstanding tag should not be ready")
	}

	rs.clearTag(5)
	if !rs.ready(0) {
		t.Error("entry should be ready once its producer's tag is cleared")
	}
}

func TestRSTableClearTagIgnoresUnrelatedProducers(t *testing.T) {
	rs := newRSTable(1)
	rs.allocate(10, [3]int{5, 0, 0})
	rs.clearTag(6) // unrelated producer
	if rs.ready(0) {
		t.Error("clearTag() for an unrelated producer must not clear this entry's tag")
	}
}
