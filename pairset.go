package physics

// HashValue is the key of the contact pair set.
type HashValue uintptr

const hashCoef = 3344921057

// HashPair combines two proxy ids. It is symmetric so the pair (a, b) and
// (b, a) land in the same bin.
func HashPair(a, b int) HashValue {
	return HashValue(a)*hashCoef ^ HashValue(b)*hashCoef
}

type pairBin struct {
	contact *Contact
	next    *pairBin
}

// pairSet indexes live contacts by the unordered (fixture, child) pair they
// join so the contact manager can reject duplicate broad-phase pairs
// without walking a body's contact list.
type pairSet struct {
	entries uint
	table   map[HashValue]*pairBin
}

func newPairSet() *pairSet {
	return &pairSet{table: map[HashValue]*pairBin{}}
}

func (set *pairSet) Count() uint {
	return set.entries
}

func pairSetEql(c *Contact, fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) bool {
	if c.fixtureA == fixtureA && c.indexA == indexA && c.fixtureB == fixtureB && c.indexB == indexB {
		return true
	}
	if c.fixtureA == fixtureB && c.indexA == indexB && c.fixtureB == fixtureA && c.indexB == indexA {
		return true
	}
	return false
}

// Insert adds the contact under its stored pair hash.
func (set *pairSet) Insert(c *Contact) {
	bin := &pairBin{contact: c, next: set.table[c.pairHash]}
	set.table[c.pairHash] = bin
	set.entries++
}

// Remove unlinks the contact. It reports whether it was present.
func (set *pairSet) Remove(c *Contact) bool {
	var prev *pairBin
	for bin := set.table[c.pairHash]; bin != nil; bin = bin.next {
		if bin.contact != c {
			prev = bin
			continue
		}

		switch {
		case prev != nil:
			prev.next = bin.next
		case bin.next != nil:
			set.table[c.pairHash] = bin.next
		default:
			delete(set.table, c.pairHash)
		}
		set.entries--
		return true
	}
	return false
}

// Find returns the contact joining the two fixture children, in either
// order, or nil.
func (set *pairSet) Find(hash HashValue, fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) *Contact {
	for bin := set.table[hash]; bin != nil; bin = bin.next {
		if pairSetEql(bin.contact, fixtureA, indexA, fixtureB, indexB) {
			return bin.contact
		}
	}
	return nil
}

// Each visits every contact in the set. Order is unspecified.
func (set *pairSet) Each(f func(*Contact)) {
	for _, bin := range set.table {
		for bin != nil {
			next := bin.next
			f(bin.contact)
			bin = next
		}
	}
}
