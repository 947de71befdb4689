package ecs

// Each2 iterates over entities that have both component A and B, in the
// ID order of store A. Entities removed by fn mid-iteration are skipped.
func Each2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], fn func(EntityID, *A, *B)) {
	for _, id := range sa.IDs() {
		a, ok := sa.data[id]
		if !ok {
			continue
		}
		if b, ok := sb.data[id]; ok {
			fn(id, a, b)
		}
	}
}
