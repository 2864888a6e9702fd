package ecs

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bulletml/ecs/component"
)

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if got := len(Entities(w)); got != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, got)
			}
			if c.destroyIndex < 0 {
				return
			}
			e := ents[c.destroyIndex]
			if !DestroyEntity(w, e) {
				t.Fatalf("DestroyEntity should return true for a live entity")
			}
			if IsAlive(w, e) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, e) {
				t.Fatalf("second DestroyEntity should return false")
			}
			if Count(w) != c.create-1 {
				t.Fatalf("expected count %d, got %d", c.create-1, Count(w))
			}
		})
	}
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[cp.Vector]()

	old := CreateEntity(w)
	if err := Add(w, old, kind, &cp.Vector{X: 1}); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot %d to be reused, got %d", old.id(), fresh.id())
	}
	if fresh.generation() == old.generation() {
		t.Fatalf("reused slot kept generation %d", old.generation())
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle %v reported alive", old)
	}
	if Has(w, fresh, kind) {
		t.Fatalf("recycled entity inherited a component")
	}
	if err := Add(w, old, kind, &cp.Vector{}); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestEntityString(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	if e.String() != "1v0" {
		t.Fatalf("expected 1v0, got %s", e)
	}
	var zero Entity
	if zero.Valid() {
		t.Fatalf("zero entity should be invalid")
	}
}

func TestComponents(t *testing.T) {
	w := NewWorld()

	pos := component.NewComponent[cp.Vector]()
	speed := component.NewComponent[float64]()
	name := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_position",
			setup: func() error { return Add(w, e1, pos.Kind(), &cp.Vector{X: 3, Y: 4}) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, pos.Kind())
				if !ok || v.X != 3 || v.Y != 4 {
					t.Fatalf("expected (3, 4), got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, pos.Kind()) },
		},
		{
			name: "name_on_both",
			setup: func() error {
				a, b := "left", "right"
				if err := Add(w, e1, name.Kind(), &a); err != nil {
					return err
				}
				return Add(w, e2, name.Kind(), &b)
			},
			check: func(t *testing.T) {
				if !Has(w, e1, name.Kind()) || !Has(w, e2, name.Kind()) {
					t.Fatalf("expected both entities to carry a name")
				}
			},
			teardown: func() bool { return Remove(w, e1, name.Kind()) },
		},
		{
			name: "writes_through_pointer",
			setup: func() error {
				v := 1.5
				return Add(w, e2, speed.Kind(), &v)
			},
			check: func(t *testing.T) {
				v, _ := Get(w, e2, speed.Kind())
				*v = 4
				again, _ := Get(w, e2, speed.Kind())
				if *again != 4 {
					t.Fatalf("expected stored value 4, got %v", *again)
				}
			},
			teardown: func() bool { return Remove(w, e2, speed.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestAddRejects(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	var invalid component.ComponentKind[int]
	v := 1
	if err := Add(w, e, invalid, &v); err != component.ErrInvalidComponentKind {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
	if err := Add(w, e, component.NewComponentKind[int](), nil); err != component.ErrNilComponent {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	for _, e := range []Entity{e1, e3} {
		v := int(e.id())
		if err := Add(w, e, kind, &v); err != nil {
			t.Fatal(err)
		}
	}

	seen := map[Entity]bool{}
	ForEach(w, kind, func(e Entity, _ *int) { seen[e] = true })
	if !seen[e1] || !seen[e3] || seen[e2] {
		t.Fatalf("unexpected ForEach result %v", seen)
	}
}

func TestForEachDestroyDuringIteration(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	ents := make([]Entity, 4)
	for i := range ents {
		ents[i] = CreateEntity(w)
		v := i
		if err := Add(w, ents[i], kind, &v); err != nil {
			t.Fatal(err)
		}
	}

	visited := 0
	ForEach(w, kind, func(e Entity, v *int) {
		visited++
		// The first visit removes every other entity.
		if visited == 1 {
			for _, other := range ents {
				if other != e {
					DestroyEntity(w, other)
				}
			}
		}
	})
	if visited != 1 {
		t.Fatalf("expected destroyed entities to be skipped, visited %d", visited)
	}
}

func TestForEachIntersections(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()
	kd := component.NewComponentKind[int]()

	// all carries every kind, the others carry a prefix of them.
	all := CreateEntity(w)
	three := CreateEntity(w)
	two := CreateEntity(w)
	dead := CreateEntity(w)
	add := func(e Entity, kinds ...component.ComponentKind[int]) {
		for _, k := range kinds {
			v := 0
			if err := Add(w, e, k, &v); err != nil {
				t.Fatal(err)
			}
		}
	}
	add(all, ka, kb, kc, kd)
	add(three, ka, kb, kc)
	add(two, ka, kb)
	add(dead, ka, kb, kc, kd)
	DestroyEntity(w, dead)

	count := func(run func(inc func())) int {
		n := 0
		run(func() { n++ })
		return n
	}

	tests := []struct {
		name string
		want int
		run  func(inc func())
	}{
		{"two", 3, func(inc func()) {
			ForEach2(w, ka, kb, func(Entity, *int, *int) { inc() })
		}},
		{"three", 2, func(inc func()) {
			ForEach3(w, ka, kb, kc, func(Entity, *int, *int, *int) { inc() })
		}},
		{"four", 1, func(inc func()) {
			ForEach4(w, ka, kb, kc, kd, func(Entity, *int, *int, *int, *int) { inc() })
		}},
		{"missing_store", 0, func(inc func()) {
			ForEach2(w, ka, component.NewComponentKind[int](), func(Entity, *int, *int) { inc() })
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := count(tc.run); got != tc.want {
				t.Fatalf("expected %d matches, got %d", tc.want, got)
			}
		})
	}
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[string]()

	if _, _, ok := First(w, kind); ok {
		t.Fatalf("expected no match in an empty world")
	}

	CreateEntity(w)
	e := CreateEntity(w)
	v := "target"
	if err := Add(w, e, kind, &v); err != nil {
		t.Fatal(err)
	}

	got, val, ok := First(w, kind)
	if !ok || got != e || *val != "target" {
		t.Fatalf("expected %v/target, got %v/%v ok=%v", e, got, val, ok)
	}
}

type recordingSystem struct {
	name  string
	log   *[]string
	event EventKind
}

func (s recordingSystem) Update(w *World) {
	*s.log = append(*s.log, s.name)
	if s.event != "" {
		w.Events().Push(Event{Kind: s.event})
	}
}

func TestSchedulerRunsInOrderAndFlushesEvents(t *testing.T) {
	w := NewWorld()
	var log []string
	var seen int

	s := NewScheduler(
		recordingSystem{name: "a", log: &log, event: EventSpawned},
		nil,
		recordingSystem{name: "b", log: &log, event: EventVanished},
	)
	s.Add(systemFunc(func(w *World) { seen = w.Events().Len() }))

	s.Update(w)

	if len(log) != 2 || log[0] != "a" || log[1] != "b" {
		t.Fatalf("unexpected order %v", log)
	}
	if seen != 2 {
		t.Fatalf("expected 2 queued events for the last system, got %d", seen)
	}
	if w.Events().Len() != 0 {
		t.Fatalf("expected events to be flushed after the frame")
	}
	if len(s.Systems()) != 3 {
		t.Fatalf("expected nil system to be skipped, got %d systems", len(s.Systems()))
	}
}

type systemFunc func(w *World)

func (f systemFunc) Update(w *World) { f(w) }

func TestEventQueueDrain(t *testing.T) {
	var q EventQueue
	q.Push(Event{Kind: EventExpired, Entity: 3})
	q.Push(Event{Kind: EventOutOfBound, Entity: 4})

	got := q.Drain()
	if len(got) != 2 || got[0].Kind != EventExpired || got[1].Entity != 4 {
		t.Fatalf("unexpected events %v", got)
	}
	if q.Drain() != nil {
		t.Fatalf("expected an empty queue after Drain")
	}

	var nilQueue *EventQueue
	nilQueue.Push(Event{Kind: EventSpawned})
	if nilQueue.Len() != 0 {
		t.Fatalf("nil queue should stay empty")
	}
}
