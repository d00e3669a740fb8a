package token

import (
	"encoding/json"
	"testing"
)

func TestParseID(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    uint64
		wantErr bool
	}{
		{name: "decimal", in: "42", want: 42},
		{name: "hex", in: "0x2a", want: 42},
		{name: "zero", in: "0", want: 0},
		{name: "garbage", in: "forty-two", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseID(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if got != NewID(tc.want) {
				t.Errorf("got %s, want %d", got, tc.want)
			}
		})
	}
}

func TestIDRoundTrip(t *testing.T) {
	id := NewID(7)
	text, err := id.MarshalText()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back ID
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back != id {
		t.Errorf("round trip changed value: got %s, want %s", back, id)
	}
}

func TestIDAsMapKey(t *testing.T) {
	m := map[ID]string{
		NewID(1): "one",
		NewID(2): "two",
	}
	if m[NewID(1)] != "one" {
		t.Error("lookup by equal value failed")
	}
	if _, ok := m[NewID(3)]; ok {
		t.Error("unexpected hit for absent key")
	}
}

func TestRefOrdering(t *testing.T) {
	a := NewRegistryID()
	one := Ref{Registry: a, ID: NewID(1)}
	two := Ref{Registry: a, ID: NewID(2)}

	if one.Cmp(two) >= 0 {
		t.Error("expected id 1 < id 2 within the same registry")
	}
	if one.Cmp(one) != 0 {
		t.Error("expected ref to compare equal to itself")
	}
	if one.Cmp(two) != -two.Cmp(one) {
		t.Error("expected antisymmetric ordering")
	}
}

func TestCaller(t *testing.T) {
	user := AddressCaller("alice")
	if user.IsRegistry() {
		t.Error("address caller reported as registry")
	}

	reg := RegistryCaller(NewRegistryID())
	if !reg.IsRegistry() {
		t.Error("registry caller not reported as registry")
	}
}

func TestRegistryIDJSON(t *testing.T) {
	ref := Ref{Registry: NewRegistryID(), ID: NewID(99)}

	data, err := json.Marshal(ref)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back Ref
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back != ref {
		t.Errorf("round trip changed ref: got %v, want %v", back, ref)
	}
}
