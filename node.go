package kiosk

import (
	"sort"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
)

// ClickContext carries click event data to a node's OnClick callback.
type ClickContext struct {
	Node    *Node
	GlobalX float64
	GlobalY float64
	LocalX  float64
	LocalY  float64
	// Synthetic is true when the click came from a gesture rather than a
	// mouse or touch press.
	Synthetic bool
}

// nodeIDCounter is only touched from the game loop.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the element of a scene's screen tree. A single flat struct is used
// for all node types, the way a DOM element carries tag, attributes and
// listeners in one object.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType
	Role Role

	// Hierarchy
	Parent   *Node
	children []*Node

	// Layout, relative to the parent.
	X, Y          float64
	Width, Height float64

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Interactable bool
	Disabled     bool

	// Ordering
	ZIndex int

	// Metadata. Data plays the role of data-* attributes.
	Data     map[string]string
	UserData any

	// Sprite fields (NodeTypeSprite)
	Image *ebiten.Image

	// Rect and text tint.
	Color Color

	// Text fields (NodeTypeText)
	Text      string
	TextSize  float64
	TextAlign TextAlign

	// Per-node callbacks (nil by default)
	OnClick func(ClickContext)

	disposed       bool
	childrenSorted bool
	sortedChildren []*Node
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.childrenSorted = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node that draws img stretched to w x h.
func NewSprite(name string, img *ebiten.Image, w, h float64) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Image: img, Width: w, Height: h}
	nodeDefaults(n)
	return n
}

// NewRect creates a solid color rectangle.
func NewRect(name string, c Color, w, h float64) *Node {
	n := &Node{Name: name, Type: NodeTypeRect, Width: w, Height: h}
	nodeDefaults(n)
	n.Color = c
	return n
}

// NewText creates a text label. The label box is w x h; text is laid out
// inside it according to TextAlign.
func NewText(name, content string, size, w, h float64) *Node {
	n := &Node{Name: name, Type: NodeTypeText, Text: content, TextSize: size, Width: w, Height: h}
	nodeDefaults(n)
	return n
}

// NewButton creates an interactable rectangle with a centered label. onClick
// runs for both direct and gesture clicks.
func NewButton(name, label string, bg Color, w, h float64, onClick func(ClickContext)) *Node {
	n := NewRect(name, bg, w, h)
	n.Role = RoleButton
	n.Interactable = true
	n.OnClick = onClick
	if label != "" {
		t := NewText(name+".label", label, h*0.4, w, h)
		t.TextAlign = TextAlignCenter
		n.AddChild(t)
	}
	return n
}

// SetData sets a data attribute on the node.
func (n *Node) SetData(key, value string) {
	if n.Data == nil {
		n.Data = make(map[string]string, 1)
	}
	n.Data[key] = value
}

// DataInt returns the named data attribute parsed as an int.
func (n *Node) DataInt(key string) (int, bool) {
	v, ok := n.Data[key]
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("kiosk: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("kiosk: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
		child.Parent.childrenSorted = false
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("kiosk: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
	}
	n.children = n.children[:0]
	n.sortedChildren = nil
	n.childrenSorted = true
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// Find returns the first descendant (depth-first, including n) with the
// given name, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant (including n) for which match is true,
// in depth-first order.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(c *Node) {
		if match(c) {
			out = append(out, c)
		}
		for _, cc := range c.children {
			walk(cc)
		}
	}
	walk(n)
	return out
}

// Closest returns n or its nearest ancestor with the given role, or nil.
func (n *Node) Closest(role Role) *Node {
	for p := n; p != nil; p = p.Parent {
		if p.Role == role {
			return p
		}
	}
	return nil
}

// WorldPosition returns the node's top-left corner in screen pixels.
func (n *Node) WorldPosition() (float64, float64) {
	var x, y float64
	for p := n; p != nil; p = p.Parent {
		x += p.X
		y += p.Y
	}
	return x, y
}

// WorldToLocal converts screen coordinates into this node's local space.
func (n *Node) WorldToLocal(wx, wy float64) (float64, float64) {
	x, y := n.WorldPosition()
	return wx - x, wy - y
}

// Activate fires the node's OnClick callback as if it had been clicked at
// its center. Disabled nodes are not activated.
func (n *Node) Activate(synthetic bool) bool {
	if n.OnClick == nil || n.Disabled || n.disposed {
		return false
	}
	wx, wy := n.WorldPosition()
	n.OnClick(ClickContext{
		Node:      n,
		GlobalX:   wx + n.Width/2,
		GlobalY:   wy + n.Height/2,
		LocalX:    n.Width / 2,
		LocalY:    n.Height / 2,
		Synthetic: synthetic,
	})
	return true
}

// sorted returns the children in painter order (ZIndex, then insertion).
func (n *Node) sorted() []*Node {
	if n.childrenSorted {
		if n.sortedChildren != nil {
			return n.sortedChildren
		}
		return n.children
	}
	n.sortedChildren = append(n.sortedChildren[:0], n.children...)
	sort.SliceStable(n.sortedChildren, func(i, j int) bool {
		return n.sortedChildren[i].ZIndex < n.sortedChildren[j].ZIndex
	})
	n.childrenSorted = true
	return n.sortedChildren
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.Image = nil
	n.Data = nil
	n.UserData = nil
	n.OnClick = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
