package tui

import "fmt"

// navRow is one visible line of the navigation pane.
type navRow struct {
	node  *NavNode
	depth int
	key   string
}

// Navigator flattens the navigation tree into visible rows, tracking
// expansion state, cursor position, and the active filter. Expansion
// state is keyed by node path so it survives tree rebuilds.
type Navigator struct {
	tree     *NavTree
	expanded map[string]bool
	cursor   int
	filter   string
	rows     []navRow
}

// NewNavigator creates a navigator over an empty tree.
func NewNavigator() *Navigator {
	return &Navigator{
		tree:     &NavTree{},
		expanded: make(map[string]bool),
	}
}

// SetTree replaces the tree, keeping expansion state for paths that
// still exist. Root branches start expanded.
func (n *Navigator) SetTree(tree *NavTree) {
	n.tree = tree
	for i, root := range tree.Roots {
		key := nodeKey("", root, i)
		if _, seen := n.expanded[key]; !seen {
			n.expanded[key] = true
		}
	}
	n.rebuild()
}

// Rows returns the currently visible rows.
func (n *Navigator) Rows() []navRow {
	return n.rows
}

// Cursor returns the index of the selected row.
func (n *Navigator) Cursor() int {
	return n.cursor
}

// Selected returns the node under the cursor, or nil.
func (n *Navigator) Selected() *NavNode {
	if n.cursor < 0 || n.cursor >= len(n.rows) {
		return nil
	}
	return n.rows[n.cursor].node
}

// MoveUp moves the cursor one row up.
func (n *Navigator) MoveUp() {
	if n.cursor > 0 {
		n.cursor--
	}
}

// MoveDown moves the cursor one row down.
func (n *Navigator) MoveDown() {
	if n.cursor < len(n.rows)-1 {
		n.cursor++
	}
}

// Toggle flips the expansion of the branch under the cursor.
func (n *Navigator) Toggle() {
	if n.cursor < 0 || n.cursor >= len(n.rows) {
		return
	}
	row := n.rows[n.cursor]
	if len(row.node.Children) == 0 {
		return
	}
	n.expanded[row.key] = !n.expanded[row.key]
	n.rebuild()
}

// SetFilter applies a filter over node titles. A non-empty filter shows
// every matching node regardless of expansion state.
func (n *Navigator) SetFilter(text string) {
	n.filter = text
	n.rebuild()
}

// Filter returns the active filter text.
func (n *Navigator) Filter() string {
	return n.filter
}

func (n *Navigator) rebuild() {
	n.rows = n.rows[:0]
	for i, root := range n.tree.Roots {
		n.collect(root, nodeKey("", root, i), 0)
	}
	if n.cursor >= len(n.rows) {
		n.cursor = len(n.rows) - 1
	}
	if n.cursor < 0 {
		n.cursor = 0
	}
}

func (n *Navigator) collect(node *NavNode, key string, depth int) {
	if n.filter == "" {
		n.rows = append(n.rows, navRow{node: node, depth: depth, key: key})
		if !n.expanded[key] {
			return
		}
		for i, child := range node.Children {
			n.collect(child, nodeKey(key, child, i), depth+1)
		}
		return
	}

	if FuzzyMatch(node.Title, n.filter) {
		n.rows = append(n.rows, navRow{node: node, depth: depth, key: key})
	}
	for i, child := range node.Children {
		n.collect(child, nodeKey(key, child, i), depth+1)
	}
}

func nodeKey(parent string, node *NavNode, index int) string {
	return fmt.Sprintf("%s/%d:%s", parent, index, node.Title)
}
