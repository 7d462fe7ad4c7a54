package physics

import "math"

// nullNode marks a missing child, parent or free-list link.
const nullNode = -1

// BBTreeQueryFunc is called for each proxy overlapping a query box. Return
// false to stop the query.
type BBTreeQueryFunc func(proxyID int) bool

// BBTreeRayCastFunc is called for each proxy whose box the ray reaches. It
// returns the new max fraction: 0 terminates, the input max fraction
// continues unclipped and anything between clips the ray.
type BBTreeRayCastFunc func(input RayCastInput, proxyID int) float64

// Node is a dynamic tree node. Leaves hold a proxy; internal nodes have
// exactly two children. Free nodes reuse parent as the free-list link.
type Node struct {
	bb       BB
	userData interface{}

	parent int
	child1 int
	child2 int

	// leaf = 0, free node = -1
	height int
}

func (node *Node) IsLeaf() bool {
	return node.child1 == nullNode
}

// BBTree is a dynamic AABB tree. Leaves store fattened boxes so that small
// moves do not touch the tree. Nodes live in a growable array and are
// addressed by index. Insertion picks the sibling minimising the perimeter
// cost, and rotations keep every node balanced to within one level.
type BBTree struct {
	root int

	nodes     []Node
	nodeCount int
	freeList  int

	insertionCount int
}

func NewBBTree() *BBTree {
	tree := &BBTree{root: nullNode}
	tree.grow(16)
	return tree
}

// grow extends the node pool and threads the new nodes onto the free list.
func (tree *BBTree) grow(capacity int) {
	start := len(tree.nodes)
	if capacity <= start {
		return
	}
	nodes := make([]Node, capacity)
	copy(nodes, tree.nodes)
	for i := start; i < capacity-1; i++ {
		nodes[i].parent = i + 1
		nodes[i].height = -1
	}
	nodes[capacity-1].parent = nullNode
	nodes[capacity-1].height = -1
	tree.nodes = nodes
	tree.freeList = start
}

func (tree *BBTree) allocateNode() int {
	if tree.freeList == nullNode {
		assert(tree.nodeCount == len(tree.nodes), "tree free list corrupt")
		tree.grow(2 * len(tree.nodes))
	}

	nodeID := tree.freeList
	node := &tree.nodes[nodeID]
	tree.freeList = node.parent
	node.parent = nullNode
	node.child1 = nullNode
	node.child2 = nullNode
	node.height = 0
	node.userData = nil
	tree.nodeCount++
	return nodeID
}

func (tree *BBTree) freeNode(nodeID int) {
	assert(0 <= nodeID && nodeID < len(tree.nodes), "node out of range")
	assert(0 < tree.nodeCount, "tree empty")
	tree.nodes[nodeID].parent = tree.freeList
	tree.nodes[nodeID].height = -1
	tree.nodes[nodeID].userData = nil
	tree.freeList = nodeID
	tree.nodeCount--
}

// CreateProxy inserts a leaf for bb, fattened by AABBExtension, and returns
// its id.
func (tree *BBTree) CreateProxy(bb BB, userData interface{}) int {
	proxyID := tree.allocateNode()

	tree.nodes[proxyID].bb = bb.Fatten(AABBExtension)
	tree.nodes[proxyID].userData = userData
	tree.nodes[proxyID].height = 0

	tree.insertLeaf(proxyID)
	return proxyID
}

func (tree *BBTree) DestroyProxy(proxyID int) {
	assert(0 <= proxyID && proxyID < len(tree.nodes), "proxy out of range")
	assert(tree.nodes[proxyID].IsLeaf(), "proxy is not a leaf")

	tree.removeLeaf(proxyID)
	tree.freeNode(proxyID)
}

// MoveProxy refits a leaf whose tight box is bb. Nothing happens if the
// fat box still contains bb. Otherwise the leaf is reinserted with a box
// fattened by AABBExtension and extended along the displacement. Returns
// true if the leaf was reinserted.
func (tree *BBTree) MoveProxy(proxyID int, bb BB, displacement Vector) bool {
	assert(0 <= proxyID && proxyID < len(tree.nodes), "proxy out of range")
	assert(tree.nodes[proxyID].IsLeaf(), "proxy is not a leaf")

	if tree.nodes[proxyID].bb.Contains(bb) {
		return false
	}

	tree.removeLeaf(proxyID)

	b := bb.Fatten(AABBExtension)

	// Predict movement.
	d := displacement.Mult(AABBMultiplier)
	if d.X < 0 {
		b.L += d.X
	} else {
		b.R += d.X
	}
	if d.Y < 0 {
		b.B += d.Y
	} else {
		b.T += d.Y
	}

	tree.nodes[proxyID].bb = b
	tree.insertLeaf(proxyID)
	return true
}

func (tree *BBTree) UserData(proxyID int) interface{} {
	assert(0 <= proxyID && proxyID < len(tree.nodes), "proxy out of range")
	return tree.nodes[proxyID].userData
}

// FatBB returns the fattened box stored for a proxy.
func (tree *BBTree) FatBB(proxyID int) BB {
	assert(0 <= proxyID && proxyID < len(tree.nodes), "proxy out of range")
	return tree.nodes[proxyID].bb
}

// Query calls f for each proxy whose fat box overlaps bb.
func (tree *BBTree) Query(bb BB, f BBTreeQueryFunc) {
	stack := make([]int, 0, 256)
	stack = append(stack, tree.root)

	for len(stack) > 0 {
		nodeID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if nodeID == nullNode {
			continue
		}

		node := &tree.nodes[nodeID]
		if !node.bb.Intersects(bb) {
			continue
		}

		if node.IsLeaf() {
			if !f(nodeID) {
				return
			}
		} else {
			stack = append(stack, node.child1, node.child2)
		}
	}
}

// RayCast calls f for each proxy whose fat box the ray reaches, clipping
// the ray by whatever fraction f returns.
func (tree *BBTree) RayCast(input RayCastInput, f BBTreeRayCastFunc) {
	p1 := input.P1
	p2 := input.P2
	r := p2.Sub(p1)
	assert(r.LengthSq() > 0, "zero length ray")
	r = r.Normalize()

	// v is perpendicular to the segment.
	v := CrossSV(1.0, r)
	absV := v.Abs()

	// Separating axis for segment (Gino, p80).
	// |dot(v, p1 - c)| > dot(|v|, h)

	maxFraction := input.MaxFraction

	segmentBB := func() BB {
		t := p1.Add(p2.Sub(p1).Mult(maxFraction))
		return NewBBForPoints(p1, t)
	}
	bb := segmentBB()

	stack := make([]int, 0, 256)
	stack = append(stack, tree.root)

	for len(stack) > 0 {
		nodeID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if nodeID == nullNode {
			continue
		}

		node := &tree.nodes[nodeID]
		if !node.bb.Intersects(bb) {
			continue
		}

		c := node.bb.Center()
		h := node.bb.Extents()
		separation := math.Abs(v.Dot(p1.Sub(c))) - absV.Dot(h)
		if separation > 0 {
			continue
		}

		if node.IsLeaf() {
			subInput := RayCastInput{P1: input.P1, P2: input.P2, MaxFraction: maxFraction}

			value := f(subInput, nodeID)
			if value == 0 {
				// The client has terminated the ray cast.
				return
			}

			if value > 0 {
				maxFraction = value
				bb = segmentBB()
			}
		} else {
			stack = append(stack, node.child1, node.child2)
		}
	}
}

func (tree *BBTree) insertLeaf(leaf int) {
	tree.insertionCount++

	if tree.root == nullNode {
		tree.root = leaf
		tree.nodes[leaf].parent = nullNode
		return
	}

	// Find the best sibling for this node.
	leafBB := tree.nodes[leaf].bb
	index := tree.root
	for !tree.nodes[index].IsLeaf() {
		child1 := tree.nodes[index].child1
		child2 := tree.nodes[index].child2

		area := tree.nodes[index].bb.Perimeter()
		combinedArea := tree.nodes[index].bb.Merge(leafBB).Perimeter()

		// Cost of creating a new parent for this node and the new leaf.
		cost := 2.0 * combinedArea

		// Minimum cost of pushing the leaf further down the tree.
		inheritanceCost := 2.0 * (combinedArea - area)

		cost1 := tree.descendCost(child1, leafBB) + inheritanceCost
		cost2 := tree.descendCost(child2, leafBB) + inheritanceCost

		if cost < cost1 && cost < cost2 {
			break
		}

		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index

	// Create a new parent.
	oldParent := tree.nodes[sibling].parent
	newParent := tree.allocateNode()
	tree.nodes[newParent].parent = oldParent
	tree.nodes[newParent].bb = leafBB.Merge(tree.nodes[sibling].bb)
	tree.nodes[newParent].height = tree.nodes[sibling].height + 1
	tree.nodes[newParent].child1 = sibling
	tree.nodes[newParent].child2 = leaf
	tree.nodes[sibling].parent = newParent
	tree.nodes[leaf].parent = newParent

	if oldParent != nullNode {
		if tree.nodes[oldParent].child1 == sibling {
			tree.nodes[oldParent].child1 = newParent
		} else {
			tree.nodes[oldParent].child2 = newParent
		}
	} else {
		tree.root = newParent
	}

	tree.refit(tree.nodes[leaf].parent)
}

// descendCost is the growth in perimeter caused by pushing bb into child.
func (tree *BBTree) descendCost(child int, bb BB) float64 {
	merged := bb.Merge(tree.nodes[child].bb).Perimeter()
	if tree.nodes[child].IsLeaf() {
		return merged
	}
	return merged - tree.nodes[child].bb.Perimeter()
}

// refit walks from index to the root, rebalancing and fixing heights and
// boxes.
func (tree *BBTree) refit(index int) {
	for index != nullNode {
		index = tree.balance(index)

		child1 := tree.nodes[index].child1
		child2 := tree.nodes[index].child2
		assert(child1 != nullNode && child2 != nullNode, "internal node missing child")

		tree.nodes[index].height = 1 + maxInt(tree.nodes[child1].height, tree.nodes[child2].height)
		tree.nodes[index].bb = tree.nodes[child1].bb.Merge(tree.nodes[child2].bb)

		index = tree.nodes[index].parent
	}
}

func (tree *BBTree) removeLeaf(leaf int) {
	if leaf == tree.root {
		tree.root = nullNode
		return
	}

	parent := tree.nodes[leaf].parent
	grandParent := tree.nodes[parent].parent
	sibling := tree.nodes[parent].child1
	if sibling == leaf {
		sibling = tree.nodes[parent].child2
	}

	if grandParent != nullNode {
		// Destroy parent and connect sibling to grandParent.
		if tree.nodes[grandParent].child1 == parent {
			tree.nodes[grandParent].child1 = sibling
		} else {
			tree.nodes[grandParent].child2 = sibling
		}
		tree.nodes[sibling].parent = grandParent
		tree.freeNode(parent)

		tree.refit(grandParent)
	} else {
		tree.root = sibling
		tree.nodes[sibling].parent = nullNode
		tree.freeNode(parent)
	}
}

// balance performs a left or right rotation if node iA is imbalanced and
// returns the index of the subtree's new root.
func (tree *BBTree) balance(iA int) int {
	A := &tree.nodes[iA]
	if A.IsLeaf() || A.height < 2 {
		return iA
	}

	iB := A.child1
	iC := A.child2
	B := &tree.nodes[iB]
	C := &tree.nodes[iC]

	balance := C.height - B.height

	// Rotate C up
	if balance > 1 {
		iF := C.child1
		iG := C.child2
		F := &tree.nodes[iF]
		G := &tree.nodes[iG]

		// Swap A and C
		C.child1 = iA
		C.parent = A.parent
		A.parent = iC
		tree.replaceChild(C.parent, iA, iC)

		if F.height > G.height {
			C.child2 = iF
			A.child2 = iG
			G.parent = iA
			A.bb = B.bb.Merge(G.bb)
			C.bb = A.bb.Merge(F.bb)
			A.height = 1 + maxInt(B.height, G.height)
			C.height = 1 + maxInt(A.height, F.height)
		} else {
			C.child2 = iG
			A.child2 = iF
			F.parent = iA
			A.bb = B.bb.Merge(F.bb)
			C.bb = A.bb.Merge(G.bb)
			A.height = 1 + maxInt(B.height, F.height)
			C.height = 1 + maxInt(A.height, G.height)
		}

		return iC
	}

	// Rotate B up
	if balance < -1 {
		iD := B.child1
		iE := B.child2
		D := &tree.nodes[iD]
		E := &tree.nodes[iE]

		// Swap A and B
		B.child1 = iA
		B.parent = A.parent
		A.parent = iB
		tree.replaceChild(B.parent, iA, iB)

		if D.height > E.height {
			B.child2 = iD
			A.child1 = iE
			E.parent = iA
			A.bb = C.bb.Merge(E.bb)
			B.bb = A.bb.Merge(D.bb)
			A.height = 1 + maxInt(C.height, E.height)
			B.height = 1 + maxInt(A.height, D.height)
		} else {
			B.child2 = iE
			A.child1 = iD
			D.parent = iA
			A.bb = C.bb.Merge(D.bb)
			B.bb = A.bb.Merge(E.bb)
			A.height = 1 + maxInt(C.height, D.height)
			B.height = 1 + maxInt(A.height, E.height)
		}

		return iB
	}

	return iA
}

// replaceChild points parent's link at oldChild to newChild, or makes
// newChild the root when parent is null.
func (tree *BBTree) replaceChild(parent, oldChild, newChild int) {
	if parent == nullNode {
		tree.root = newChild
		return
	}
	if tree.nodes[parent].child1 == oldChild {
		tree.nodes[parent].child1 = newChild
	} else {
		assert(tree.nodes[parent].child2 == oldChild, "tree parent link corrupt")
		tree.nodes[parent].child2 = newChild
	}
}

// Height is the height of the root, zero for an empty tree.
func (tree *BBTree) Height() int {
	if tree.root == nullNode {
		return 0
	}
	return tree.nodes[tree.root].height
}

// AreaRatio is the sum of all node perimeters over the root perimeter.
func (tree *BBTree) AreaRatio() float64 {
	if tree.root == nullNode {
		return 0
	}

	rootArea := tree.nodes[tree.root].bb.Perimeter()
	totalArea := 0.0
	for i := range tree.nodes {
		if tree.nodes[i].height < 0 {
			continue
		}
		totalArea += tree.nodes[i].bb.Perimeter()
	}
	return totalArea / rootArea
}

// MaxBalance is the largest height difference between sibling subtrees.
func (tree *BBTree) MaxBalance() int {
	maxBalance := 0
	for i := range tree.nodes {
		node := &tree.nodes[i]
		if node.height <= 1 {
			continue
		}
		balance := tree.nodes[node.child2].height - tree.nodes[node.child1].height
		if balance < 0 {
			balance = -balance
		}
		maxBalance = maxInt(maxBalance, balance)
	}
	return maxBalance
}

// LeafCount is the number of live proxies.
func (tree *BBTree) LeafCount() int {
	count := 0
	for i := range tree.nodes {
		if tree.nodes[i].height == 0 {
			count++
		}
	}
	return count
}

func (tree *BBTree) computeHeight(nodeID int) int {
	node := &tree.nodes[nodeID]
	if node.IsLeaf() {
		return 0
	}
	return 1 + maxInt(tree.computeHeight(node.child1), tree.computeHeight(node.child2))
}

// Validate checks structure and metrics of the whole tree and returns the
// first inconsistency found, or nil.
func (tree *BBTree) Validate() error {
	if err := tree.validate(tree.root, nullNode); err != nil {
		return err
	}

	freeCount := 0
	for index := tree.freeList; index != nullNode; index = tree.nodes[index].parent {
		freeCount++
	}
	if tree.Height() != tree.computeHeightSafe() {
		return treeError("root height mismatch")
	}
	if tree.nodeCount+freeCount != len(tree.nodes) {
		return treeError("node count mismatch")
	}
	return nil
}

func (tree *BBTree) computeHeightSafe() int {
	if tree.root == nullNode {
		return 0
	}
	return tree.computeHeight(tree.root)
}

func (tree *BBTree) validate(index, parent int) error {
	if index == nullNode {
		return nil
	}

	node := &tree.nodes[index]
	if node.parent != parent {
		return treeError("parent link mismatch")
	}

	if node.IsLeaf() {
		if node.child2 != nullNode || node.height != 0 {
			return treeError("malformed leaf")
		}
		return nil
	}

	c1 := &tree.nodes[node.child1]
	c2 := &tree.nodes[node.child2]
	if node.height != 1+maxInt(c1.height, c2.height) {
		return treeError("height mismatch")
	}
	if !node.bb.Contains(c1.bb) || !node.bb.Contains(c2.bb) {
		return treeError("box does not contain children")
	}

	if err := tree.validate(node.child1, index); err != nil {
		return err
	}
	return tree.validate(node.child2, index)
}

type treeError string

func (e treeError) Error() string {
	return "bbtree: " + string(e)
}

// RebuildBottomUp builds an optimal tree greedily from the current leaves.
// It is expensive and meant for static scenes.
func (tree *BBTree) RebuildBottomUp() {
	nodes := make([]int, 0, tree.nodeCount)

	// Build array of leaves. Free the rest.
	for i := range tree.nodes {
		if tree.nodes[i].height < 0 {
			continue
		}
		if tree.nodes[i].IsLeaf() {
			tree.nodes[i].parent = nullNode
			nodes = append(nodes, i)
		} else {
			tree.freeNode(i)
		}
	}

	count := len(nodes)
	if count == 0 {
		tree.root = nullNode
		return
	}

	for count > 1 {
		minCost := maxFloat
		iMin, jMin := -1, -1
		for i := 0; i < count; i++ {
			bbi := tree.nodes[nodes[i]].bb
			for j := i + 1; j < count; j++ {
				cost := bbi.Merge(tree.nodes[nodes[j]].bb).Perimeter()
				if cost < minCost {
					iMin, jMin = i, j
					minCost = cost
				}
			}
		}

		index1 := nodes[iMin]
		index2 := nodes[jMin]

		parentIndex := tree.allocateNode()
		child1 := &tree.nodes[index1]
		child2 := &tree.nodes[index2]
		parent := &tree.nodes[parentIndex]
		parent.child1 = index1
		parent.child2 = index2
		parent.height = 1 + maxInt(child1.height, child2.height)
		parent.bb = child1.bb.Merge(child2.bb)
		parent.parent = nullNode

		child1.parent = parentIndex
		child2.parent = parentIndex

		nodes[jMin] = nodes[count-1]
		nodes[iMin] = parentIndex
		count--
	}

	tree.root = nodes[0]
}

// ShiftOrigin translates every box by -newOrigin.
func (tree *BBTree) ShiftOrigin(newOrigin Vector) {
	for i := range tree.nodes {
		tree.nodes[i].bb = tree.nodes[i].bb.Offset(newOrigin.Neg())
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
