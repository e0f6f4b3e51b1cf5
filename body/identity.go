package body

import "fmt"

// Category classifies where a collision body comes from in the scene.
type Category int

const (
	// CategoryRobotLink bodies are part of the robot's own structure.
	CategoryRobotLink Category = iota
	// CategoryAttachedObject bodies are carried by a robot link,
	// typically a grasped part.
	CategoryAttachedObject
	// CategoryWorldObject bodies belong to the environment.
	CategoryWorldObject
)

func (c Category) String() string {
	switch c {
	case CategoryRobotLink:
		return "robot-link"
	case CategoryAttachedObject:
		return "attached-object"
	case CategoryWorldObject:
		return "world-object"
	}
	return "unknown"
}

// ParseCategory maps the textual category names used in scene files.
func ParseCategory(name string) (Category, error) {
	switch name {
	case "robot-link":
		return CategoryRobotLink, nil
	case "attached-object":
		return CategoryAttachedObject, nil
	case "world-object":
		return CategoryWorldObject, nil
	}
	return 0, fmt.Errorf("unknown body category %q", name)
}

// Identity names a collision body and records where it comes from.
// Identities are built once when the scene is assembled and shared
// read-only afterwards; ids must be unique within a scene.
type Identity struct {
	ID       string
	Category Category

	// ParentLink is the link an attached object is carried by.
	// Empty for anything that is not an attached object.
	ParentLink string

	// TouchLinks lists the robot links the attached object is allowed
	// to touch, usually the gripper links holding it.
	TouchLinks map[string]struct{}
}

// NewIdentity creates an identity for a robot link or a world object.
func NewIdentity(id string, category Category) *Identity {
	return &Identity{ID: id, Category: category}
}

// NewAttachedIdentity creates the identity of an object attached to
// parentLink, allowed to touch the given links.
func NewAttachedIdentity(id, parentLink string, touchLinks ...string) *Identity {
	identity := &Identity{
		ID:         id,
		Category:   CategoryAttachedObject,
		ParentLink: parentLink,
		TouchLinks: make(map[string]struct{}, len(touchLinks)),
	}
	for _, link := range touchLinks {
		identity.TouchLinks[link] = struct{}{}
	}
	return identity
}

// AllowsTouch reports whether this attached object tolerates contact
// with the given robot link.
func (identity *Identity) AllowsTouch(link string) bool {
	if identity.Category != CategoryAttachedObject {
		return false
	}
	_, ok := identity.TouchLinks[link]
	return ok
}
