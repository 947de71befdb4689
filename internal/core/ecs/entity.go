package ecs

import "fmt"

// Kind is the entity-kind discriminant carried inside every EntityID.
// It is fixed at creation; dispatch switches on it instead of tags.
type Kind uint8

const (
	KindNone Kind = iota
	KindShip
	KindAsteroid
	KindCollectable
	KindOrbitItem
	KindPlanet
)

func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindAsteroid:
		return "asteroid"
	case KindCollectable:
		return "collectable"
	case KindOrbitItem:
		return "orbit_item"
	case KindPlanet:
		return "planet"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

const (
	indexBits = 24
	indexMask = 1<<indexBits - 1
	kindShift = indexBits
	kindMask  = 0xFF
	genShift  = 32
)

// EntityID encodes a 24-bit slot index, an 8-bit Kind and a 32-bit generation
// (upper bits). Generation increments on destroy to invalidate stale refs.
type EntityID uint64

func NewEntityID(index uint32, kind Kind, generation uint32) EntityID {
	return EntityID(uint64(generation)<<genShift | uint64(kind)<<kindShift | uint64(index&indexMask))
}

func (id EntityID) Index() uint32      { return uint32(id) & indexMask }
func (id EntityID) Kind() Kind         { return Kind(uint32(id)>>kindShift) & kindMask }
func (id EntityID) Generation() uint32 { return uint32(id >> genShift) }
func (id EntityID) IsZero() bool       { return id == 0 }

func (id EntityID) String() string {
	return fmt.Sprintf("%s#%d.%d", id.Kind(), id.Index(), id.Generation())
}

// EntityPool manages entity allocation with generational indices and a free list.
// Generations start at 1 so no live entity ever encodes to the zero ID.
type EntityPool struct {
	generations []uint32
	kinds       []Kind
	freeList    []uint32
	nextIndex   uint32
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 256),
		kinds:       make([]Kind, 0, 256),
		freeList:    make([]uint32, 0, 64),
	}
}

func (p *EntityPool) Create(kind Kind) EntityID {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		p.kinds[idx] = kind
		return NewEntityID(idx, kind, p.generations[idx])
	}
	idx := p.nextIndex
	if idx > indexMask {
		panic("ecs: entity index space exhausted")
	}
	p.nextIndex++
	p.generations = append(p.generations, 1)
	p.kinds = append(p.kinds, kind)
	return NewEntityID(idx, kind, 1)
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation() && p.kinds[idx] == id.Kind()
}

// Destroy invalidates id. Returns false when id was already dead.
func (p *EntityPool) Destroy(id EntityID) bool {
	if !p.Alive(id) {
		return false // already destroyed (stale reference)
	}
	idx := id.Index()
	p.generations[idx]++
	if p.generations[idx] == 0 {
		p.generations[idx] = 1
	}
	p.kinds[idx] = KindNone
	p.freeList = append(p.freeList, idx)
	return true
}

// Count returns the number of live entities.
func (p *EntityPool) Count() int {
	return int(p.nextIndex) - len(p.freeList)
}
