package ecs

import "github.com/milk9111/bulletml/ecs/component"

// ForEach visits every live entity carrying a component of kind a. The
// callback may add, remove or destroy; entities destroyed earlier in the
// same pass are skipped.
func ForEach[A any](w *World, a component.ComponentKind[A], fn func(Entity, *A)) {
	sa := storeFor(w, a, false)
	if sa == nil {
		return
	}
	for _, id := range sa.ids() {
		e, ok := w.entities.entity(id)
		if !ok {
			continue
		}
		va, ok := sa.get(id)
		if !ok {
			continue
		}
		fn(e, va)
	}
}

// ForEach2 visits entities carrying both kinds.
func ForEach2[A, B any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sb := storeFor(w, b, false)
	if sb == nil {
		return
	}
	ForEach(w, a, func(e Entity, va *A) {
		vb, ok := sb.get(e.id())
		if !ok {
			return
		}
		fn(e, va, vb)
	})
}

// ForEach3 visits entities carrying all three kinds.
func ForEach3[A, B, C any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sc := storeFor(w, c, false)
	if sc == nil {
		return
	}
	ForEach2(w, a, b, func(e Entity, va *A, vb *B) {
		vc, ok := sc.get(e.id())
		if !ok {
			return
		}
		fn(e, va, vb, vc)
	})
}

// ForEach4 visits entities carrying all four kinds.
func ForEach4[A, B, C, D any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], d component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sd := storeFor(w, d, false)
	if sd == nil {
		return
	}
	ForEach3(w, a, b, c, func(e Entity, va *A, vb *B, vc *C) {
		vd, ok := sd.get(e.id())
		if !ok {
			return
		}
		fn(e, va, vb, vc, vd)
	})
}

// First returns the first live entity carrying kind a, in storage order.
func First[A any](w *World, a component.ComponentKind[A]) (Entity, *A, bool) {
	sa := storeFor(w, a, false)
	if sa == nil {
		return 0, nil, false
	}
	for _, id := range sa.dense {
		if e, ok := w.entities.entity(id); ok {
			v, _ := sa.get(id)
			return e, v, true
		}
	}
	return 0, nil, false
}
