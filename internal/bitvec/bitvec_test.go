// Copyright 2024 MaxJon233. All rights reserved.

package bitvec

import "testing"

func TestZero(t *testing.T) {
	var v V[uint32]
	if n := v.Len(); n != 0 {
		t.Fatalf("v.Len:\nhave %d\nwant 0", n)
	}
	if n := v.Rem(); n != 0 {
		t.Fatalf("v.Rem:\nhave %d\nwant 0", n)
	}
}

func TestGrow(t *testing.T) {
	var v V[uint32]
	for _, x := range [...]struct {
		nplus, wantLen int
	}{
		{1, 32},
		{2, 96},
		{0, 96},
		{-1, 96},
		{4, 224},
	} {
		if prev, i := v.Len(), v.Grow(x.nplus); i != prev {
			t.Fatalf("v.Grow:\nhave %d\nwant %d", i, prev)
		}
		if n := v.Len(); n != x.wantLen {
			t.Fatalf("v.Len:\nhave %d\nwant %d", n, x.wantLen)
		}
		if n := v.Rem(); n != x.wantLen {
			t.Fatalf("v.Rem:\nhave %d\nwant %d", n, x.wantLen)
		}
	}
}

func TestSetUnset(t *testing.T) {
	var v V[uint8]
	v.Grow(2)
	for _, i := range [...]int{0, 3, 7, 8, 15} {
		if v.IsSet(i) {
			t.Fatalf("v.IsSet(%d):\nhave true\nwant false", i)
		}
		v.Set(i)
		if !v.IsSet(i) {
			t.Fatalf("v.IsSet(%d):\nhave false\nwant true", i)
		}
	}
	if n := v.Rem(); n != 11 {
		t.Fatalf("v.Rem:\nhave %d\nwant 11", n)
	}
	// Setting a set bit must not double-count.
	v.Set(3)
	if n := v.Rem(); n != 11 {
		t.Fatalf("v.Rem:\nhave %d\nwant 11", n)
	}
	v.Unset(3)
	if v.IsSet(3) {
		t.Fatalf("v.IsSet(3):\nhave true\nwant false")
	}
	if n := v.Rem(); n != 12 {
		t.Fatalf("v.Rem:\nhave %d\nwant 12", n)
	}
	v.Unset(3)
	if n := v.Rem(); n != 12 {
		t.Fatalf("v.Rem:\nhave %d\nwant 12", n)
	}
}

func TestClear(t *testing.T) {
	var v V[uint16]
	v.Grow(2)
	for _, i := range [...]int{1, 5, 17, 31} {
		v.Set(i)
	}
	v.Clear()
	if n := v.Rem(); n != v.Len() {
		t.Fatalf("v.Rem:\nhave %d\nwant %d", n, v.Len())
	}
	for _, i := range [...]int{1, 5, 17, 31} {
		if v.IsSet(i) {
			t.Fatalf("v.IsSet(%d):\nhave true\nwant false", i)
		}
	}
}
