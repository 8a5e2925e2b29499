package services

import (
	"strings"

	"shopcatalog/internal/models"
)

// PathSeparator joins category titles in a full path.
const PathSeparator = " > "

// CategoryTree indexes categories by id so paths can be resolved without
// further queries. Parents are looked up by id; nodes hold no back-pointers.
type CategoryTree struct {
	nodes map[uint]models.Category
}

// NewCategoryTree builds a tree from a flat list of categories.
func NewCategoryTree(categories []models.Category) *CategoryTree {
	nodes := make(map[uint]models.Category, len(categories))
	for _, c := range categories {
		nodes[c.ID] = c
	}
	return &CategoryTree{nodes: nodes}
}

// Put adds or replaces a node.
func (t *CategoryTree) Put(c models.Category) {
	t.nodes[c.ID] = c
}

// Path returns the titles from the root down to c. A parent missing from the
// tree ends the walk, and so does a parent already visited.
func (t *CategoryTree) Path(c models.Category) []string {
	titles := []string{c.Title}
	visited := map[uint]struct{}{c.ID: {}}
	for parentID := c.ParentID; parentID != nil; {
		parent, ok := t.nodes[*parentID]
		if !ok {
			break
		}
		if _, seen := visited[parent.ID]; seen {
			break
		}
		visited[parent.ID] = struct{}{}
		titles = append(titles, parent.Title)
		parentID = parent.ParentID
	}
	for i, j := 0, len(titles)-1; i < j; i, j = i+1, j-1 {
		titles[i], titles[j] = titles[j], titles[i]
	}
	return titles
}

// FullPath returns the titles from the root down to c joined by PathSeparator.
func (t *CategoryTree) FullPath(c models.Category) string {
	return strings.Join(t.Path(c), PathSeparator)
}

// WouldCreateCycle reports whether making parentID the parent of id would
// close a loop, that is whether id is parentID itself or one of its ancestors.
func (t *CategoryTree) WouldCreateCycle(id, parentID uint) bool {
	visited := make(map[uint]struct{})
	for current := &parentID; current != nil; {
		if *current == id {
			return true
		}
		if _, seen := visited[*current]; seen {
			return true
		}
		visited[*current] = struct{}{}
		node, ok := t.nodes[*current]
		if !ok {
			return false
		}
		current = node.ParentID
	}
	return false
}
