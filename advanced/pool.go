package advanced

import "math/rand"

type pooled interface {
	comparable
	IsDead() bool
	kill()
	getSlot() int
	setSlot(int)
	reset(id int)
}

// pool owns the triangles (or subsegments) of a mesh. Killed elements stay in
// the live slice until prune swaps them out, so handles to them can still be
// recognised as dead. After prune they are recycled under a fresh ID.
type pool[T pooled] struct {
	live   []T
	dead   []T
	free   []T
	nextID int
	alloc  func() T
}

func newPool[T pooled](alloc func() T) *pool[T] {
	return &pool[T]{alloc: alloc}
}

func (p *pool[T]) get() T {
	var item T
	if n := len(p.free); n > 0 {
		item = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		item = p.alloc()
	}
	item.reset(p.nextID)
	p.nextID++
	item.setSlot(len(p.live))
	p.live = append(p.live, item)
	return item
}

func (p *pool[T]) release(item T) {
	if item.IsDead() {
		return
	}
	item.kill()
	p.dead = append(p.dead, item)
}

// Number of elements that are alive.
func (p *pool[T]) count() int {
	return len(p.live) - len(p.dead)
}

func (p *pool[T]) prune() int {
	for _, item := range p.dead {
		last := len(p.live) - 1
		moved := p.live[last]
		p.live[item.getSlot()] = moved
		moved.setSlot(item.getSlot())
		p.live = p.live[:last]
		p.free = append(p.free, item)
	}
	n := len(p.dead)
	p.dead = p.dead[:0]
	return n
}

// sample picks up to k live elements at random. Dead elements drawn are
// skipped rather than redrawn.
func (p *pool[T]) sample(k int, rng *rand.Rand, fn func(T)) {
	if len(p.live) == 0 {
		return
	}
	for i := 0; i < k; i++ {
		item := p.live[rng.Intn(len(p.live))]
		if !item.IsDead() {
			fn(item)
		}
	}
}

func (p *pool[T]) each(fn func(T)) {
	for _, item := range p.live {
		if !item.IsDead() {
			fn(item)
		}
	}
}
