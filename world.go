package graze

import (
	"log/slog"

	"github.com/akmonengine/graze/body"
)

const (
	DEFAULT_WORKERS   = 1
	DEFAULT_CELL_SIZE = 1.0
)

type World struct {
	// List of all bodies known to the checker
	Bodies      []*body.Body
	SpatialGrid *SpatialGrid
	Workers     int

	// Allowed exempts pairs from colliding; nil exempts none
	Allowed   *AllowedCollisions
	Generator ContactGenerator

	Log         *slog.Logger
	Diagnostics *Diagnostics
}

// AddBody adds a body to the world
func (w *World) AddBody(b *body.Body) {
	w.Bodies = append(w.Bodies, b)
}

// RemoveBody removes a body from the world
func (w *World) RemoveBody(b *body.Body) {
	k := -1
	for i, wb := range w.Bodies {
		if wb == b {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}
}

// Body returns the body carrying the given id, or nil
func (w *World) Body(id string) *body.Body {
	for _, b := range w.Bodies {
		if b.Identity.ID == id {
			return b
		}
	}
	return nil
}

// Check answers a collision request against the world's own policy
// table. The returned result is freshly allocated for this run.
func (w *World) Check(request *CollisionRequest) *CollisionResult {
	return w.CheckWith(request, w.Allowed)
}

// CheckWith answers a collision request under an explicit policy
// table, leaving the world's own table untouched.
func (w *World) CheckWith(request *CollisionRequest, allowed *AllowedCollisions) *CollisionResult {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	if w.SpatialGrid == nil {
		w.SpatialGrid = NewSpatialGrid(DEFAULT_CELL_SIZE, 2*len(w.Bodies))
	}

	generator := w.Generator
	if generator == nil {
		generator = ConvexGenerator{}
	}

	result := NewCollisionResult()
	ec := NewEvalContext(request, result, allowed, generator)
	if w.Log != nil {
		ec.Log = w.Log
	}
	ec.Diag = w.Diagnostics

	// Phase 1: refresh world-space bounds
	w.refreshBounds()

	// Phase 2: candidate pairs - Broad phase
	pairs := BroadPhase(w.SpatialGrid, w.Bodies)

	// Phase 3: decision procedure, stops at the first conclusive answer
	for _, pair := range pairs {
		if Evaluate(pair.BodyA, pair.BodyB, ec) {
			break
		}
	}

	if w.Diagnostics != nil {
		w.Diagnostics.Flush()
	}

	return result
}

func (w *World) refreshBounds() {
	task(w.Workers, w.Bodies, func(b *body.Body) {
		b.ComputeAABB()
	})
}

// BroadPhase refreshes the grid from the bodies' current bounds and
// enumerates candidate pairs
func BroadPhase(spatialGrid *SpatialGrid, bodies []*body.Body) []Pair {
	spatialGrid.Clear()
	for i, b := range bodies {
		spatialGrid.Insert(i, b)
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairs(bodies)
}
