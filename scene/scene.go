// Package scene assembles collision worlds from YAML descriptions.
//
// A scene file lists the bodies to check, the pairs the policy table
// exempts and the request the caller wants answered. Conditional
// allowances carry code and cannot be expressed in a file; scenes only
// declare unconditional ones.
package scene

import (
	"fmt"
	"os"

	"github.com/akmonengine/graze"
	"github.com/akmonengine/graze/body"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// File mirrors the YAML layout of a scene description.
type File struct {
	CellSize float64     `yaml:"cell_size,omitempty"`
	Workers  int         `yaml:"workers,omitempty"`
	Bodies   []BodyDef   `yaml:"bodies"`
	Allowed  []PairDef   `yaml:"allowed,omitempty"`
	Request  *RequestDef `yaml:"request,omitempty"`
}

// BodyDef declares one collision body. A missing name gets a fresh
// generated id; a missing scale means 1.
type BodyDef struct {
	Name       string     `yaml:"name,omitempty"`
	Category   string     `yaml:"category"`
	ParentLink string     `yaml:"parent_link,omitempty"`
	TouchLinks []string   `yaml:"touch_links,omitempty"`
	Shape      ShapeDef   `yaml:"shape"`
	Position   [3]float64 `yaml:"position,omitempty"`
	Rotation   [4]float64 `yaml:"rotation,omitempty"` // w, x, y, z
	Scale      float64    `yaml:"scale,omitempty"`
	Padding    float64    `yaml:"padding,omitempty"`
}

// ShapeDef declares collision geometry. Type selects which of the
// remaining fields are read.
type ShapeDef struct {
	Type        string       `yaml:"type"`
	HalfExtents [3]float64   `yaml:"half_extents,omitempty"`
	Radius      float64      `yaml:"radius,omitempty"`
	Length      float64      `yaml:"length,omitempty"`
	Normal      [3]float64   `yaml:"normal,omitempty"`
	Distance    float64      `yaml:"distance,omitempty"`
	Vertices    [][3]float64 `yaml:"vertices,omitempty"`
	Triangles   [][3]int     `yaml:"triangles,omitempty"`
}

// PairDef exempts one pair of bodies from colliding.
type PairDef struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
}

// RequestDef overrides the default collision request field by field.
type RequestDef struct {
	WantContacts       *bool `yaml:"want_contacts,omitempty"`
	MaxContacts        *int  `yaml:"max_contacts,omitempty"`
	MaxContactsPerPair *int  `yaml:"max_contacts_per_pair,omitempty"`
	Verbose            *bool `yaml:"verbose,omitempty"`
}

// Scene binds a ready world to the request its file asked for.
type Scene struct {
	World   *graze.World
	Request *graze.CollisionRequest
}

// Load reads and assembles a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}

	return Parse(data)
}

// Parse assembles a scene from YAML bytes.
func Parse(data []byte) (*Scene, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}

	return build(&file)
}

func build(file *File) (*Scene, error) {
	cellSize := file.CellSize
	if cellSize <= 0 {
		cellSize = graze.DEFAULT_CELL_SIZE
	}

	world := &graze.World{
		SpatialGrid: graze.NewSpatialGrid(cellSize, 2*len(file.Bodies)),
		Workers:     file.Workers,
		Allowed:     graze.NewAllowedCollisions(),
	}

	names := make(map[string]struct{}, len(file.Bodies))
	for i := range file.Bodies {
		b, err := buildBody(&file.Bodies[i])
		if err != nil {
			return nil, err
		}

		if _, dup := names[b.Identity.ID]; dup {
			return nil, fmt.Errorf("scene declares body %q twice", b.Identity.ID)
		}
		names[b.Identity.ID] = struct{}{}

		world.AddBody(b)
	}

	for _, pair := range file.Allowed {
		if pair.First == pair.Second {
			return nil, fmt.Errorf("allowed pair repeats body %q", pair.First)
		}
		for _, name := range []string{pair.First, pair.Second} {
			if _, ok := names[name]; !ok {
				return nil, fmt.Errorf("allowed pair references unknown body %q", name)
			}
		}
		world.Allowed.Set(pair.First, pair.Second)
	}

	return &Scene{
		World:   world,
		Request: buildRequest(file.Request),
	}, nil
}

func buildBody(def *BodyDef) (*body.Body, error) {
	name := def.Name
	if name == "" {
		name = "object_" + uuid.NewString()
	}

	category, err := body.ParseCategory(def.Category)
	if err != nil {
		return nil, fmt.Errorf("body %q: %w", name, err)
	}

	var identity *body.Identity
	if category == body.CategoryAttachedObject {
		identity = body.NewAttachedIdentity(name, def.ParentLink, def.TouchLinks...)
	} else {
		if def.ParentLink != "" || len(def.TouchLinks) > 0 {
			return nil, fmt.Errorf("body %q: parent link and touch links only apply to attached objects", name)
		}
		identity = body.NewIdentity(name, category)
	}

	shape, err := buildShape(&def.Shape)
	if err != nil {
		return nil, fmt.Errorf("body %q: %w", name, err)
	}

	scale := def.Scale
	if scale == 0 {
		scale = 1
	}

	return body.NewBody(identity, shape, buildTransform(def), scale, def.Padding)
}

func buildTransform(def *BodyDef) body.Transform {
	rotation := mgl64.QuatIdent()
	if def.Rotation != [4]float64{} {
		rotation = mgl64.Quat{
			W: def.Rotation[0],
			V: mgl64.Vec3{def.Rotation[1], def.Rotation[2], def.Rotation[3]},
		}
	}

	return body.FromPose(mgl64.Vec3(def.Position), rotation)
}

func buildShape(def *ShapeDef) (body.ShapeInterface, error) {
	switch def.Type {
	case "box":
		return &body.Box{HalfExtents: mgl64.Vec3(def.HalfExtents)}, nil

	case "sphere":
		return &body.Sphere{Radius: def.Radius}, nil

	case "cylinder":
		return &body.Cylinder{Radius: def.Radius, Length: def.Length}, nil

	case "plane":
		normal := mgl64.Vec3(def.Normal)
		if normal.Len() == 0 {
			return nil, fmt.Errorf("plane normal must be non-zero")
		}
		return &body.Plane{Normal: normal.Normalize(), Distance: def.Distance}, nil

	case "mesh":
		vertices := make([]mgl64.Vec3, len(def.Vertices))
		for i, v := range def.Vertices {
			vertices[i] = mgl64.Vec3(v)
		}
		return &body.ConvexMesh{Vertices: vertices, Triangles: def.Triangles}, nil
	}

	return nil, fmt.Errorf("unknown shape type %q", def.Type)
}

func buildRequest(def *RequestDef) *graze.CollisionRequest {
	request := graze.DefaultRequest()
	if def == nil {
		return &request
	}

	if def.WantContacts != nil {
		request.WantContacts = *def.WantContacts
	}
	if def.MaxContacts != nil {
		request.MaxContacts = *def.MaxContacts
	}
	if def.MaxContactsPerPair != nil {
		request.MaxContactsPerPair = *def.MaxContactsPerPair
	}
	if def.Verbose != nil {
		request.Verbose = *def.Verbose
	}

	return &request
}
