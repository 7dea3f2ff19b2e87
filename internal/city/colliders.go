package city

// OwnerKind says which kind of entity a static collider stands for.
type OwnerKind uint8

const (
	OwnerBuilding OwnerKind = iota
	OwnerParkedVehicle
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerBuilding:
		return "building"
	case OwnerParkedVehicle:
		return "parked-vehicle"
	}
	return "unknown"
}

// Owner identifies the entity behind a collider: a building index into
// Layout.Buildings or a parked vehicle index into ParkingSystem.Cars.
type Owner struct {
	Kind  OwnerKind
	Index int
}

// ColliderHandle is a stable reference into a ColliderSet. A handle whose
// slot has been freed and reused no longer resolves.
type ColliderHandle struct {
	index uint32
	gen   uint32
}

// NoCollider is the zero handle; it never resolves.
var NoCollider = ColliderHandle{}

func (h ColliderHandle) Valid() bool { return h.gen != 0 }

type colliderSlot struct {
	box   AABB
	owner Owner
	gen   uint32 // even = free, odd = live
	out   bool   // stored in the overflow list instead of the quadtree
}

// ColliderSet is the arena of static obstacle boxes. Insert and remove are
// O(1) on the arena; a quadtree over the city extent accelerates overlap
// queries and boxes outside that extent go to a short overflow list.
type ColliderSet struct {
	slots    []colliderSlot
	free     []uint32
	live     int
	index    *QuadNode
	overflow []ColliderHandle

	scratch []ColliderHandle
}

// NewColliderSet creates an empty set indexed over the XZ rectangle bounds.
func NewColliderSet(bounds RectF) *ColliderSet {
	return &ColliderSet{
		slots: make([]colliderSlot, 0, 256),
		index: NewQuadNode(bounds, 0),
	}
}

// Add stores box for owner and returns its handle.
func (cs *ColliderSet) Add(box AABB, owner Owner) ColliderHandle {
	var idx uint32
	if n := len(cs.free); n > 0 {
		idx = cs.free[n-1]
		cs.free = cs.free[:n-1]
	} else {
		cs.slots = append(cs.slots, colliderSlot{})
		idx = uint32(len(cs.slots) - 1)
	}
	s := &cs.slots[idx]
	s.gen++
	s.box = box
	s.owner = owner
	h := ColliderHandle{index: idx, gen: s.gen}

	rect := box.XZRect()
	s.out = !cs.index.bounds.Contains(rect)
	if s.out {
		cs.overflow = append(cs.overflow, h)
	} else {
		cs.index.Insert(h, rect)
	}
	cs.live++
	return h
}

// Remove frees the slot behind h. A stale or zero handle is a no-op and
// reports false.
func (cs *ColliderSet) Remove(h ColliderHandle) bool {
	s := cs.slot(h)
	if s == nil {
		return false
	}
	if s.out {
		for i, o := range cs.overflow {
			if o == h {
				last := len(cs.overflow) - 1
				cs.overflow[i] = cs.overflow[last]
				cs.overflow = cs.overflow[:last]
				break
			}
		}
	} else {
		cs.index.Remove(h, s.box.XZRect())
	}
	s.gen++
	s.box = AABB{}
	s.owner = Owner{}
	s.out = false
	cs.free = append(cs.free, h.index)
	cs.live--
	return true
}

func (cs *ColliderSet) slot(h ColliderHandle) *colliderSlot {
	if !h.Valid() || int(h.index) >= len(cs.slots) {
		return nil
	}
	s := &cs.slots[h.index]
	if s.gen != h.gen || s.gen&1 == 0 {
		return nil
	}
	return s
}

// Get returns the box and owner behind h.
func (cs *ColliderSet) Get(h ColliderHandle) (AABB, Owner, bool) {
	s := cs.slot(h)
	if s == nil {
		return AABB{}, Owner{}, false
	}
	return s.box, s.owner, true
}

func (cs *ColliderSet) Len() int { return cs.live }

// CountOwned counts live colliders of one owner kind.
func (cs *ColliderSet) CountOwned(kind OwnerKind) int {
	n := 0
	for i := range cs.slots {
		s := &cs.slots[i]
		if s.gen&1 == 1 && s.owner.Kind == kind {
			n++
		}
	}
	return n
}

// Each calls fn for every live collider in arena order.
func (cs *ColliderSet) Each(fn func(h ColliderHandle, box AABB, owner Owner)) {
	for i := range cs.slots {
		s := &cs.slots[i]
		if s.gen&1 == 1 {
			fn(ColliderHandle{index: uint32(i), gen: s.gen}, s.box, s.owner)
		}
	}
}

// Intersects reports whether box overlaps any live collider.
func (cs *ColliderSet) Intersects(box AABB) bool {
	_, hit := cs.FirstHit(box)
	return hit
}

// FirstHit returns a collider overlapping box, if any.
func (cs *ColliderSet) FirstHit(box AABB) (ColliderHandle, bool) {
	return cs.firstHitExcept(box, nil)
}

// IntersectsExcept is Intersects with the handles in ignore left out.
func (cs *ColliderSet) IntersectsExcept(box AABB, ignore []ColliderHandle) bool {
	_, hit := cs.firstHitExcept(box, ignore)
	return hit
}

// Overlapping appends every live collider overlapping box to out.
func (cs *ColliderSet) Overlapping(box AABB, out []ColliderHandle) []ColliderHandle {
	for _, h := range cs.candidates(box) {
		if s := cs.slot(h); s != nil && s.box.Intersects(box) {
			out = append(out, h)
		}
	}
	return out
}

func (cs *ColliderSet) firstHitExcept(box AABB, ignore []ColliderHandle) (ColliderHandle, bool) {
next:
	for _, h := range cs.candidates(box) {
		s := cs.slot(h)
		if s == nil || !s.box.Intersects(box) {
			continue
		}
		for _, ig := range ignore {
			if ig == h {
				continue next
			}
		}
		return h, true
	}
	return NoCollider, false
}

// candidates is the broad phase: quadtree hits plus the overflow list. The
// slice is reused by the next query.
func (cs *ColliderSet) candidates(box AABB) []ColliderHandle {
	cs.scratch = cs.scratch[:0]
	cs.index.Query(box.XZRect(), &cs.scratch)
	cs.scratch = append(cs.scratch, cs.overflow...)
	return cs.scratch
}
