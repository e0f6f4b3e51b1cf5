package graze

import (
	"math"
	"sort"

	"github.com/akmonengine/graze/body"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey - Coordonnées d'une cellule dans l'espace 3D
type CellKey struct {
	X, Y, Z int
}

// Cell - Conteneur d'indices de bodies dans une cellule
type Cell struct {
	bodyIndices []int
}

// Pair - Paire de bodies candidate pour la narrow phase
type Pair struct {
	BodyA *body.Body
	BodyB *body.Body
}

// SpatialGrid - Grille spatiale uniforme avec hashing pour broad phase
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	// Les plans ont une AABB quasi infinie : ils sont tenus hors des
	// cellules et appariés explicitement dans FindPairs
	planeIndices []int
}

// ============================================================================
// Constructeur
// ============================================================================

// NewSpatialGrid - Crée une nouvelle grille spatiale
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - Arrondit à la puissance de 2 supérieure
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - Insère un body dans toutes les cellules qu'il occupe
func (sg *SpatialGrid) Insert(bodyIndex int, b *body.Body) {
	if _, isPlane := b.Shape.(*body.Plane); isPlane {
		sg.planeIndices = append(sg.planeIndices, bodyIndex)
		return
	}

	aabb := b.Shape.GetAABB()
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellKey := CellKey{x, y, z}
				cellIdx := sg.hashCell(cellKey)

				sg.cells[cellIdx].bodyIndices = append(
					sg.cells[cellIdx].bodyIndices,
					bodyIndex,
				)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
	sg.planeIndices = sg.planeIndices[:0]
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			sort.Ints(sg.cells[i].bodyIndices)
		}
	}
	sort.Ints(sg.planeIndices)
}

// FindPairs - Énumère les paires candidates, en ordre déterministe
func (sg *SpatialGrid) FindPairs(bodies []*body.Body) []Pair {
	pairs := make([]Pair, 0, len(bodies)/2)

	seen := make([]bool, len(bodies))
	clearSeen := make([]bool, len(bodies))

	// ========== BOUCLE SUR BODIES ==========
	for bodyIdx := 0; bodyIdx < len(bodies); bodyIdx++ {
		bodyA := bodies[bodyIdx]
		if _, isPlane := bodyA.Shape.(*body.Plane); isPlane {
			continue
		}

		copy(seen, clearSeen)

		// Trouver cellules occupées par bodyA
		minCell := sg.worldToCell(bodyA.Shape.GetAABB().Min)
		maxCell := sg.worldToCell(bodyA.Shape.GetAABB().Max)

		// Parcourir ces cellules
		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					cellKey := CellKey{x, y, z}
					cellIdx := sg.hashCell(cellKey)

					// Tester contre tous les bodies dans cette cellule
					for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
						// ========== ORDRE DÉTERMINISTE ==========
						if otherIdx <= bodyIdx || seen[otherIdx] {
							continue // Évite doublons (A,B) et (B,A)
						}
						seen[otherIdx] = true

						bodyB := bodies[otherIdx]
						if bodyA.Shape.GetAABB().Overlaps(bodyB.Shape.GetAABB()) {
							pairs = append(pairs, Pair{BodyA: bodyA, BodyB: bodyB})
						}
					}
				}
			}
		}
	}

	// ========== PLANS ==========
	// Un plan est candidat face à chaque body borné ; deux plans entre
	// eux n'ont pas de test borné, la paire est ignorée
	for _, planeIdx := range sg.planeIndices {
		for otherIdx := 0; otherIdx < len(bodies); otherIdx++ {
			if otherIdx == planeIdx {
				continue
			}
			if _, isPlane := bodies[otherIdx].Shape.(*body.Plane); isPlane {
				continue
			}

			first, second := planeIdx, otherIdx
			if second < first {
				first, second = second, first
			}
			pairs = append(pairs, Pair{BodyA: bodies[first], BodyB: bodies[second]})
		}
	}

	return pairs
}

// worldToCell - Convertit une position monde en coordonnées de cellule
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - Hash une cellule vers un index dans l'array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
