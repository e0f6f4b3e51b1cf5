package main

import (
	"fmt"
	"os"

	"github.com/akmonengine/graze"
	"github.com/akmonengine/graze/scene"
)

// Scène par défaut : une pince portant une pièce saisie, au-dessus
// d'une table posée sur le sol. La pièce frôle la table.
const defaultScene = `
cell_size: 0.5
bodies:
  - name: gripper
    category: robot-link
    shape:
      type: box
      half_extents: [0.05, 0.08, 0.05]
    position: [0.0, 0.0, 0.50]
  - name: grasped_part
    category: attached-object
    parent_link: gripper
    touch_links: [gripper]
    shape:
      type: sphere
      radius: 0.07
    position: [0.0, 0.0, 0.42]
  - name: table
    category: world-object
    shape:
      type: box
      half_extents: [0.60, 0.40, 0.02]
    position: [0.0, 0.0, 0.37]
  - name: ground
    category: world-object
    shape:
      type: plane
      normal: [0.0, 0.0, 1.0]
      distance: 0.0
request:
  want_contacts: true
  max_contacts: 8
  max_contacts_per_pair: 4
`

func loadScene() (*scene.Scene, error) {
	if len(os.Args) > 1 {
		return scene.Load(os.Args[1])
	}

	return scene.Parse([]byte(defaultScene))
}

func main() {
	s, err := loadScene()
	if err != nil {
		fmt.Printf("scene error: %v\n", err)
		os.Exit(1)
	}

	// Instrumenter les décisions du run
	diagnostics := graze.NewDiagnostics()
	s.World.Diagnostics = diagnostics

	diagnostics.Subscribe(graze.DecisionTouchAllowed, func(d graze.Decision) {
		fmt.Printf("🤝 touch allowed: %s\n", d.Pair)
	})
	diagnostics.Subscribe(graze.DecisionAlwaysAllowed, func(d graze.Decision) {
		fmt.Printf("✅ pair exempted: %s\n", d.Pair)
	})
	diagnostics.Subscribe(graze.DecisionContactsFound, func(d graze.Decision) {
		fmt.Printf("💥 %d contact(s): %s\n", d.Count, d.Pair)
	})

	result := s.World.Check(s.Request)

	fmt.Println("==================================================")
	fmt.Printf("collision: %v, contacts stored: %d\n", result.Collision, result.ContactCount)

	for key, contacts := range result.Contacts {
		fmt.Printf("pair %s:\n", key)
		for i, contact := range contacts {
			fmt.Printf("  point %d: position=%v normal=%v depth=%.6f\n",
				i, contact.Position, contact.Normal, contact.Depth)
		}
	}
}
