package scene

import "fmt"

// Scene is an ordered collection of boards. Board order is the iteration
// order seen by the matcher, so callers that care about binding order should
// add boards in the order they want them reported.
type Scene struct {
	boards    []*Board
	nameIndex map[string]*Board
	idIndex   map[BoardID]*Board

	// EnclosingSize is the model's original overall size, the target that
	// adsorption snaps full-extent boards to.
	EnclosingSize Vec3
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{
		nameIndex: make(map[string]*Board),
		idIndex:   make(map[BoardID]*Board),
	}
}

// AddBoard appends a board. It does not check for duplicate names; Validate
// reports those. A board without an ID is assigned one.
func (s *Scene) AddBoard(b *Board) {
	if b.ID == "" {
		b.ID = NewBoardID()
	}
	s.boards = append(s.boards, b)
	s.idIndex[b.ID] = b
	if b.Name != "" {
		s.nameIndex[b.Name] = b
	}
}

// Lookup returns the board with the given name, or nil.
func (s *Scene) Lookup(name string) *Board {
	return s.nameIndex[name]
}

// MustLookup returns the board with the given name, or panics.
func (s *Scene) MustLookup(name string) *Board {
	b := s.Lookup(name)
	if b == nil {
		panic(fmt.Sprintf("scene: no board named %q", name))
	}
	return b
}

// Get returns the board with the given ID, or nil.
func (s *Scene) Get(id BoardID) *Board {
	return s.idIndex[id]
}

// Boards returns the boards in insertion order. The slice is shared; callers
// must not append to it.
func (s *Scene) Boards() []*Board {
	return s.boards
}

// BoardCount returns the number of boards.
func (s *Scene) BoardCount() int {
	return len(s.boards)
}
