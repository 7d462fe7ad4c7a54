package physics

import "sort"

// PairFunc receives the user data of two proxies whose fat boxes overlap.
type PairFunc func(userDataA, userDataB interface{})

type proxyPair struct {
	proxyA, proxyB int
}

// BroadPhase wraps a BBTree with a move buffer. Proxies that moved (or were
// created) since the last UpdatePairs are re-queried against the tree, and
// each new overlapping pair is reported once.
type BroadPhase struct {
	tree *BBTree

	proxyCount int

	moveBuffer []int
	pairBuffer []proxyPair
}

func NewBroadPhase() *BroadPhase {
	return &BroadPhase{
		tree:       NewBBTree(),
		moveBuffer: make([]int, 0, 16),
		pairBuffer: make([]proxyPair, 0, 16),
	}
}

// CreateProxy adds bb to the tree. The proxy is reported by the next
// UpdatePairs even if it never moves.
func (bp *BroadPhase) CreateProxy(bb BB, userData interface{}) int {
	proxyID := bp.tree.CreateProxy(bb, userData)
	bp.proxyCount++
	bp.bufferMove(proxyID)
	return proxyID
}

func (bp *BroadPhase) DestroyProxy(proxyID int) {
	bp.unbufferMove(proxyID)
	bp.proxyCount--
	bp.tree.DestroyProxy(proxyID)
}

// MoveProxy refits a proxy. Pairs are only re-queried if the fat box had
// to grow.
func (bp *BroadPhase) MoveProxy(proxyID int, bb BB, displacement Vector) {
	if bp.tree.MoveProxy(proxyID, bb, displacement) {
		bp.bufferMove(proxyID)
	}
}

// TouchProxy forces pair re-evaluation on the next update.
func (bp *BroadPhase) TouchProxy(proxyID int) {
	bp.bufferMove(proxyID)
}

func (bp *BroadPhase) FatBB(proxyID int) BB {
	return bp.tree.FatBB(proxyID)
}

func (bp *BroadPhase) UserData(proxyID int) interface{} {
	return bp.tree.UserData(proxyID)
}

// TestOverlap tests the fat boxes of two proxies.
func (bp *BroadPhase) TestOverlap(proxyIDA, proxyIDB int) bool {
	return bp.tree.FatBB(proxyIDA).Intersects(bp.tree.FatBB(proxyIDB))
}

func (bp *BroadPhase) ProxyCount() int {
	return bp.proxyCount
}

func (bp *BroadPhase) TreeHeight() int {
	return bp.tree.Height()
}

func (bp *BroadPhase) TreeBalance() int {
	return bp.tree.MaxBalance()
}

func (bp *BroadPhase) TreeQuality() float64 {
	return bp.tree.AreaRatio()
}

func (bp *BroadPhase) Query(bb BB, f BBTreeQueryFunc) {
	bp.tree.Query(bb, f)
}

func (bp *BroadPhase) RayCast(input RayCastInput, f BBTreeRayCastFunc) {
	bp.tree.RayCast(input, f)
}

func (bp *BroadPhase) ShiftOrigin(newOrigin Vector) {
	bp.tree.ShiftOrigin(newOrigin)
}

// UpdatePairs queries the tree for every buffered proxy and calls f once
// for each distinct overlapping pair. The move buffer is cleared.
func (bp *BroadPhase) UpdatePairs(f PairFunc) {
	bp.pairBuffer = bp.pairBuffer[:0]

	for _, queryProxyID := range bp.moveBuffer {
		if queryProxyID == nullNode {
			continue
		}

		fatBB := bp.tree.FatBB(queryProxyID)
		bp.tree.Query(fatBB, func(proxyID int) bool {
			// A proxy cannot form a pair with itself.
			if proxyID == queryProxyID {
				return true
			}
			bp.pairBuffer = append(bp.pairBuffer, proxyPair{
				proxyA: minInt(proxyID, queryProxyID),
				proxyB: maxInt(proxyID, queryProxyID),
			})
			return true
		})
	}

	bp.moveBuffer = bp.moveBuffer[:0]

	// Sort so that duplicates are adjacent.
	sort.Slice(bp.pairBuffer, func(i, j int) bool {
		a, b := bp.pairBuffer[i], bp.pairBuffer[j]
		if a.proxyA != b.proxyA {
			return a.proxyA < b.proxyA
		}
		return a.proxyB < b.proxyB
	})

	for i := 0; i < len(bp.pairBuffer); {
		primary := bp.pairBuffer[i]
		f(bp.tree.UserData(primary.proxyA), bp.tree.UserData(primary.proxyB))
		i++

		for i < len(bp.pairBuffer) && bp.pairBuffer[i] == primary {
			i++
		}
	}
}

func (bp *BroadPhase) bufferMove(proxyID int) {
	bp.moveBuffer = append(bp.moveBuffer, proxyID)
}

func (bp *BroadPhase) unbufferMove(proxyID int) {
	for i, id := range bp.moveBuffer {
		if id == proxyID {
			bp.moveBuffer[i] = nullNode
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
