package engine

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/parameter"
)

var (
	ErrInvalidChunkSize  = errors.New("chunk dimensions must be positive")
	ErrGridLocked        = errors.New("chunk grid is being iterated")
	ErrNotRegistered     = errors.New("slot not registered")
	ErrAlreadyRegistered = errors.New("slot already registered")
	ErrInconsistent      = errors.New("chunk membership inconsistent")
)

// Source supplies the node state the grid indexes
type Source interface {
	// Edges returns the current absolute bounding box of a node
	Edges(id core.NodeID) core.Edges
	// DrawKey returns the current draw order key of a locator node
	DrawKey(id core.NodeID) DrawKey
}

// ChunkGrid is a sparse uniform grid of chunks tracking role membership per node
// Chunks are created on first reference; a configured extent turns it into a
// fixed-size grid where anything outside reads as empty
type ChunkGrid struct {
	chunkW, chunkH float64
	extent         *ChunkRange

	chunks   map[ChunkKey]*Chunk
	trackers map[core.NodeID]*RoleTracker
	src      Source

	iterating int
	onUnlock  func()
	mutations uint64
}

// NewChunkGrid creates an empty grid sized from cfg
func NewChunkGrid(cfg parameter.Config, src Source) (*ChunkGrid, error) {
	if !(cfg.ChunkWidth > 0) || !(cfg.ChunkHeight > 0) {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidChunkSize, cfg.ChunkWidth, cfg.ChunkHeight)
	}
	g := &ChunkGrid{
		chunkW:   cfg.ChunkWidth,
		chunkH:   cfg.ChunkHeight,
		chunks:   make(map[ChunkKey]*Chunk),
		trackers: make(map[core.NodeID]*RoleTracker),
		src:      src,
	}
	if cfg.Bounded() {
		g.extent = &ChunkRange{MinCol: 0, MaxCol: cfg.ExtentCols - 1, MinRow: 0, MaxRow: cfg.ExtentRows - 1}
	}
	return g, nil
}

// ChunkSize returns chunk width and height in world units
func (g *ChunkGrid) ChunkSize() (w, h float64) {
	return g.chunkW, g.chunkH
}

// Extent returns the fixed extent, ok is false for an unbounded grid
func (g *ChunkGrid) Extent() (ChunkRange, bool) {
	if g.extent == nil {
		return ChunkRange{}, false
	}
	return *g.extent, true
}

// RangeFor returns the inclusive membership range of a box
func (g *ChunkGrid) RangeFor(e core.Edges) ChunkRange {
	return InclusiveRange(e, g.chunkW, g.chunkH)
}

// clip restricts a range to the extent, ok is false when nothing remains
func (g *ChunkGrid) clip(r ChunkRange) (ChunkRange, bool) {
	if g.extent == nil {
		return r, true
	}
	return r.Intersect(*g.extent)
}

// Chunk returns the chunk at (col, row), nil if never created or outside the extent
func (g *ChunkGrid) Chunk(col, row int) *Chunk {
	k := ChunkKey{Col: col, Row: row}
	if g.extent != nil && !g.extent.Contains(k) {
		return nil
	}
	return g.chunks[k]
}

func (g *ChunkGrid) chunkAt(k ChunkKey) *Chunk {
	c, ok := g.chunks[k]
	if !ok {
		c = newChunk(k)
		g.chunks[k] = c
	}
	return c
}

// Len returns the number of materialized chunks
func (g *ChunkGrid) Len() int {
	return len(g.chunks)
}

// Keys returns the materialized chunk keys in row-major order
func (g *ChunkGrid) Keys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(g.chunks))
	for k := range g.chunks {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b ChunkKey) int {
		if c := cmp.Compare(a.Row, b.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.Col, b.Col)
	})
	return keys
}

// Nodes returns every tracked node in ascending order
func (g *ChunkGrid) Nodes() []core.NodeID {
	ids := make([]core.NodeID, 0, len(g.trackers))
	for id := range g.trackers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Mutations returns the running count of bucket insertions and removals
func (g *ChunkGrid) Mutations() uint64 {
	return g.mutations
}

// Tracker returns a copy of a node's membership bookkeeping
func (g *ChunkGrid) Tracker(id core.NodeID) (RoleTracker, bool) {
	t, ok := g.trackers[id]
	if !ok {
		return RoleTracker{}, false
	}
	return *t, true
}

// Tracked reports whether a node holds any slot
func (g *ChunkGrid) Tracked(id core.NodeID) bool {
	_, ok := g.trackers[id]
	return ok
}

// RangeOf returns a node's cached chunk range, ok is false when unregistered
func (g *ChunkGrid) RangeOf(id core.NodeID) (ChunkRange, bool) {
	t, ok := g.trackers[id]
	if !ok {
		return ChunkRange{}, false
	}
	return t.Range, true
}

// Iterating reports whether a streaming query is in progress
func (g *ChunkGrid) Iterating() bool {
	return g.iterating > 0
}

// OnUnlock sets the callback fired when the outermost iteration ends
func (g *ChunkGrid) OnUnlock(fn func()) {
	g.onUnlock = fn
}

func (g *ChunkGrid) lock() {
	g.iterating++
}

func (g *ChunkGrid) unlock() {
	g.iterating--
	if g.iterating == 0 && g.onUnlock != nil {
		g.onUnlock()
	}
}

// Register adds a node to one slot across its whole chunk range
// The range is computed on the first slot and reused by later ones
func (g *ChunkGrid) Register(id core.NodeID, s Slot) error {
	if g.iterating > 0 {
		return ErrGridLocked
	}
	t, ok := g.trackers[id]
	if !ok {
		t = &RoleTracker{}
	}
	if t.Active(s) {
		return fmt.Errorf("%w: node %d %s", ErrAlreadyRegistered, id, slotName(s))
	}
	if t.Count == 0 {
		t.Range = g.RangeFor(g.src.Edges(id))
		g.trackers[id] = t
	}
	if s.Role == core.RoleLocator {
		t.Key = g.src.DrawKey(id)
	}
	t.Count++
	t.set(s, true)
	g.insertInto(id, s, t)
	return nil
}

// Unregister removes a node from one slot, dropping its range when no slot remains
func (g *ChunkGrid) Unregister(id core.NodeID, s Slot) error {
	if g.iterating > 0 {
		return ErrGridLocked
	}
	t, ok := g.trackers[id]
	if !ok || !t.Active(s) {
		return fmt.Errorf("%w: node %d %s", ErrNotRegistered, id, slotName(s))
	}

	g.removeFrom(id, s, t)
	t.set(s, false)
	t.Count--
	if t.Count == 0 {
		delete(g.trackers, id)
	}
	return nil
}

func (g *ChunkGrid) removeFrom(id core.NodeID, s Slot, t *RoleTracker) {
	r, ok := g.clip(t.Range)
	if !ok {
		return
	}
	r.Each(func(k ChunkKey) {
		if c := g.chunks[k]; c != nil && c.remove(s, id, t.Key) {
			g.mutations++
		}
	})
}

func (g *ChunkGrid) insertInto(id core.NodeID, s Slot, t *RoleTracker) {
	r, ok := g.clip(t.Range)
	if !ok {
		return
	}
	r.Each(func(k ChunkKey) {
		if g.chunkAt(k).insert(s, id, t.Key) {
			g.mutations++
		}
	})
}

// Refresh recomputes a registered node's range after its bounds may have moved
// An unchanged range is a no-op; otherwise every active slot leaves the whole
// old range and joins the whole new range
func (g *ChunkGrid) Refresh(id core.NodeID) (bool, error) {
	t, ok := g.trackers[id]
	if !ok {
		return false, nil
	}
	next := g.RangeFor(g.src.Edges(id))
	if next == t.Range {
		return false, nil
	}
	if g.iterating > 0 {
		return false, ErrGridLocked
	}

	slots := t.Slots()
	for _, s := range slots {
		g.removeFrom(id, s, t)
	}
	t.Range = next
	for _, s := range slots {
		g.insertInto(id, s, t)
	}
	return true, nil
}

// Rekey reorders a registered locator after its draw key changed
func (g *ChunkGrid) Rekey(id core.NodeID) error {
	if g.iterating > 0 {
		return ErrGridLocked
	}
	t, ok := g.trackers[id]
	if !ok || !t.Roles[core.RoleLocator] {
		return fmt.Errorf("%w: node %d locator", ErrNotRegistered, id)
	}
	next := g.src.DrawKey(id)
	if next == t.Key {
		return nil
	}
	s := RoleSlot(core.RoleLocator)
	g.removeFrom(id, s, t)
	t.Key = next
	g.insertInto(id, s, t)
	return nil
}

// Evict drops chunks that hold no members
func (g *ChunkGrid) Evict() int {
	if g.iterating > 0 {
		return 0
	}
	n := 0
	for k, c := range g.chunks {
		if c.Empty() {
			delete(g.chunks, k)
			n++
		}
	}
	return n
}

// Clear forgets every chunk and tracker
func (g *ChunkGrid) Clear() {
	g.chunks = make(map[ChunkKey]*Chunk)
	g.trackers = make(map[core.NodeID]*RoleTracker)
}

func slotName(s Slot) string {
	if s.Role == core.RoleSolid {
		return "solid/" + s.Dir.String()
	}
	return s.Role.String()
}
