package relation

import "testing"

func TestAddAndContains(t *testing.T) {
	x := New[string]()

	if !x.Add("a") {
		t.Fatal("first add rejected")
	}
	if x.Add("a") {
		t.Error("duplicate add accepted")
	}
	if !x.Contains("a") {
		t.Error("added reference not found")
	}
	if x.Contains("b") {
		t.Error("absent reference reported present")
	}
	if x.Len() != 1 {
		t.Errorf("len = %d, want 1", x.Len())
	}
}

func TestRemoveSwapsLast(t *testing.T) {
	x := New[string]()
	for _, r := range []string{"a", "b", "c"} {
		x.Add(r)
	}

	if !x.Remove("a") {
		t.Fatal("remove of present reference failed")
	}
	if x.Remove("a") {
		t.Error("second remove of same reference succeeded")
	}
	if x.Len() != 2 {
		t.Fatalf("len = %d, want 2", x.Len())
	}

	// The last element must have taken the vacated slot.
	items := x.Items()
	if items[0] != "c" || items[1] != "b" {
		t.Errorf("items = %v, want [c b]", items)
	}

	// Membership of survivors is intact.
	for _, r := range []string{"b", "c"} {
		if !x.Contains(r) {
			t.Errorf("lost reference %q after unrelated removal", r)
		}
	}
}

func TestRemoveLast(t *testing.T) {
	x := New[int]()
	x.Add(1)
	x.Add(2)

	if !x.Remove(2) {
		t.Fatal("remove failed")
	}
	if !x.Contains(1) || x.Contains(2) {
		t.Error("membership wrong after removing last slot")
	}
}

func TestNilIndexReads(t *testing.T) {
	var x *Index[string]

	if x.Len() != 0 {
		t.Error("nil index has nonzero length")
	}
	if x.Contains("a") {
		t.Error("nil index claims membership")
	}
	if x.Items() != nil {
		t.Error("nil index returned items")
	}
	if x.Remove("a") {
		t.Error("nil index removed a reference")
	}
	if x.Clone() != nil {
		t.Error("nil index cloned to non-nil")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	x := New[string]()
	x.Add("a")
	x.Add("b")

	clone := x.Clone()
	x.Remove("a")

	if !clone.Contains("a") {
		t.Error("mutation of original leaked into clone")
	}
	if clone.Len() != 2 {
		t.Errorf("clone len = %d, want 2", clone.Len())
	}
}

func TestItemsIsACopy(t *testing.T) {
	x := New[string]()
	x.Add("a")

	items := x.Items()
	items[0] = "z"

	if !x.Contains("a") || x.Contains("z") {
		t.Error("mutation of returned slice leaked into index")
	}
}
