package physics

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func randomBB(rng *rand.Rand) BB {
	c := Vector{rng.Float64()*200 - 100, rng.Float64()*200 - 100}
	return NewBBForExtents(c, 0.1+rng.Float64()*2, 0.1+rng.Float64()*2)
}

func checkTree(t *testing.T, tree *BBTree, leaves int) {
	t.Helper()
	if err := tree.Validate(); err != nil {
		t.Fatal(err)
	}
	if tree.LeafCount() != leaves {
		t.Fatalf("Expected %v leaves, got %v", leaves, tree.LeafCount())
	}
	if tree.MaxBalance() > 1 {
		t.Errorf("Tree out of balance: %v", tree.MaxBalance())
	}
	if leaves > 1 {
		bound := int(2*math.Ceil(math.Log2(float64(leaves)))) + 1
		if tree.Height() > bound {
			t.Errorf("Tree height %v exceeds %v for %v leaves", tree.Height(), bound, leaves)
		}
	}
}

func TestBBTree_InsertRemove(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tree := NewBBTree()

	var ids []int
	for i := 0; i < 500; i++ {
		ids = append(ids, tree.CreateProxy(randomBB(rng), i))
	}
	checkTree(t, tree, 500)

	// Remove every other proxy.
	kept := ids[:0]
	for i, id := range ids {
		if i%2 == 0 {
			tree.DestroyProxy(id)
		} else {
			kept = append(kept, id)
		}
	}
	checkTree(t, tree, 250)

	for _, id := range kept {
		if tree.UserData(id).(int)%2 != 1 {
			t.Fatalf("Proxy %v lost its user data", id)
		}
	}

	for _, id := range kept {
		tree.DestroyProxy(id)
	}
	checkTree(t, tree, 0)
	if tree.Height() != 0 {
		t.Errorf("Expected empty tree height 0, got %v", tree.Height())
	}
}

func TestBBTree_MoveProxy(t *testing.T) {
	tree := NewBBTree()
	bb := NewBB(0, 0, 1, 1)
	id := tree.CreateProxy(bb, nil)

	if tree.MoveProxy(id, bb.Offset(Vector{0.05, 0}), Vector{0.05, 0}) {
		t.Error("Small move inside the fat box should not reinsert")
	}

	moved := bb.Offset(Vector{1, 0})
	if !tree.MoveProxy(id, moved, Vector{1, 0}) {
		t.Fatal("Expected reinsertion after a large move")
	}
	fat := tree.FatBB(id)
	if !fat.Contains(moved) {
		t.Errorf("Fat box %v does not contain %v", fat, moved)
	}
	// Extended along the displacement.
	if fat.R < moved.R+AABBExtension+AABBMultiplier*1-1e-9 {
		t.Errorf("Fat box not predicted along displacement: %v", fat)
	}
	if fat.L != moved.L-AABBExtension {
		t.Errorf("Fat box extended against displacement: %v", fat)
	}
}

func TestBBTree_Query(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tree := NewBBTree()
	var ids []int
	for i := 0; i < 300; i++ {
		ids = append(ids, tree.CreateProxy(randomBB(rng), nil))
	}

	for q := 0; q < 20; q++ {
		query := NewBBForExtents(Vector{rng.Float64()*200 - 100, rng.Float64()*200 - 100}, 15, 15)

		var got []int
		tree.Query(query, func(proxyID int) bool {
			got = append(got, proxyID)
			return true
		})

		var want []int
		for _, id := range ids {
			if tree.FatBB(id).Intersects(query) {
				want = append(want, id)
			}
		}

		sort.Ints(got)
		if len(got) != len(want) {
			t.Fatalf("Query %v: expected %v hits, got %v", q, len(want), len(got))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("Query %v: expected %v, got %v", q, want, got)
			}
		}
	}

	count := 0
	tree.Query(NewBB(-200, -200, 200, 200), func(int) bool {
		count++
		return count < 5
	})
	if count != 5 {
		t.Errorf("Expected query to stop after 5 hits, got %v", count)
	}
}

func TestBBTree_RayCast(t *testing.T) {
	tree := NewBBTree()
	near := tree.CreateProxy(NewBB(4, -1, 5, 1), nil)
	far := tree.CreateProxy(NewBB(8, -1, 9, 1), nil)
	tree.CreateProxy(NewBB(4, 5, 5, 6), nil)

	input := RayCastInput{P1: Vector{0, 0}, P2: Vector{10, 0}, MaxFraction: 1}

	hits := map[int]bool{}
	tree.RayCast(input, func(input RayCastInput, proxyID int) float64 {
		hits[proxyID] = true
		return input.MaxFraction
	})
	if len(hits) != 2 || !hits[near] || !hits[far] {
		t.Errorf("Expected the two boxes on the ray, got %v", hits)
	}

	// Clipping the ray at the near box must prune the far one.
	hits = map[int]bool{}
	tree.RayCast(input, func(input RayCastInput, proxyID int) float64 {
		hits[proxyID] = true
		out, ok := tree.FatBB(proxyID).RayCast(input)
		if !ok {
			return -1
		}
		return out.Fraction
	})
	if !hits[near] {
		t.Error("Expected the near box to be hit")
	}
}

func TestBBTree_RebuildBottomUp(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tree := NewBBTree()
	for i := 0; i < 64; i++ {
		tree.CreateProxy(randomBB(rng), i)
	}
	tree.RebuildBottomUp()
	if err := tree.Validate(); err != nil {
		t.Fatal(err)
	}
	if tree.LeafCount() != 64 {
		t.Errorf("Expected 64 leaves, got %v", tree.LeafCount())
	}
	if tree.AreaRatio() < 1 {
		t.Errorf("Area ratio below one: %v", tree.AreaRatio())
	}
}

func TestBBTree_ShiftOrigin(t *testing.T) {
	tree := NewBBTree()
	id := tree.CreateProxy(NewBB(10, 10, 11, 11), nil)
	before := tree.FatBB(id)
	tree.ShiftOrigin(Vector{10, 10})
	after := tree.FatBB(id)
	if !after.Center().Near(before.Center().Sub(Vector{10, 10}), 1e-9) {
		t.Errorf("Expected box shifted to the new origin, got %v", after)
	}
}

func TestBroadPhase_UpdatePairs(t *testing.T) {
	bp := NewBroadPhase()
	a := bp.CreateProxy(NewBB(0, 0, 1, 1), "a")
	bp.CreateProxy(NewBB(0.5, 0.5, 1.5, 1.5), "b")
	bp.CreateProxy(NewBB(10, 10, 11, 11), "c")

	type pair struct{ a, b string }
	var pairs []pair
	collect := func(userDataA, userDataB interface{}) {
		pairs = append(pairs, pair{userDataA.(string), userDataB.(string)})
	}

	bp.UpdatePairs(collect)
	if len(pairs) != 1 {
		t.Fatalf("Expected one unique pair, got %v", pairs)
	}
	if !(pairs[0] == pair{"a", "b"} || pairs[0] == pair{"b", "a"}) {
		t.Errorf("Unexpected pair %v", pairs[0])
	}

	// Nothing moved.
	pairs = nil
	bp.UpdatePairs(collect)
	if len(pairs) != 0 {
		t.Errorf("Expected no pairs without movement, got %v", pairs)
	}

	// Moving a next to c reports the new overlap.
	bp.MoveProxy(a, NewBB(10.5, 10.5, 11.5, 11.5), Vector{10.5, 10.5})
	bp.UpdatePairs(collect)
	if len(pairs) != 1 || !(pairs[0] == pair{"a", "c"} || pairs[0] == pair{"c", "a"}) {
		t.Errorf("Expected pair a/c after move, got %v", pairs)
	}

	if bp.ProxyCount() != 3 {
		t.Errorf("Expected 3 proxies, got %v", bp.ProxyCount())
	}
}

func TestBroadPhase_DestroyBuffered(t *testing.T) {
	bp := NewBroadPhase()
	a := bp.CreateProxy(NewBB(0, 0, 1, 1), "a")
	bp.CreateProxy(NewBB(0, 0, 1, 1), "b")
	bp.DestroyProxy(a)

	calls := 0
	bp.UpdatePairs(func(interface{}, interface{}) { calls++ })
	if calls != 0 {
		t.Errorf("Destroyed proxy reported in %v pairs", calls)
	}
	if bp.ProxyCount() != 1 {
		t.Errorf("Expected 1 proxy, got %v", bp.ProxyCount())
	}
}
