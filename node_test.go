package kiosk

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constructor defaults ---

func TestNewContainerDefaults(t *testing.T) {
	n := NewContainer("test")
	assertNodeDefaults(t, n, "test", NodeTypeContainer)
}

func TestNewSpriteDefaults(t *testing.T) {
	img := ebiten.NewImage(4, 4)
	n := NewSprite("spr", img, 32, 16)
	assertNodeDefaults(t, n, "spr", NodeTypeSprite)
	if n.Image != img {
		t.Error("Image not set")
	}
	if n.Width != 32 || n.Height != 16 {
		t.Errorf("size = (%v, %v), want (32, 16)", n.Width, n.Height)
	}
}

func TestNewRectDefaults(t *testing.T) {
	c := Color{R: 0.5, A: 1}
	n := NewRect("box", c, 10, 20)
	assertNodeDefaults(t, n, "box", NodeTypeRect)
	if n.Color != c {
		t.Errorf("Color = %v, want %v", n.Color, c)
	}
}

func TestNewTextDefaults(t *testing.T) {
	n := NewText("text", "hello", 24, 100, 30)
	assertNodeDefaults(t, n, "text", NodeTypeText)
	if n.Text != "hello" || n.TextSize != 24 {
		t.Errorf("text = %q size %v", n.Text, n.TextSize)
	}
}

func TestNewButton(t *testing.T) {
	var clicked int
	b := NewButton("ok", "OK", ColorWhite, 100, 40, func(ClickContext) { clicked++ })
	if b.Role != RoleButton || !b.Interactable {
		t.Errorf("role = %v interactable = %v", b.Role, b.Interactable)
	}
	label := b.Find("ok.label")
	if label == nil || label.Text != "OK" || label.TextAlign != TextAlignCenter {
		t.Fatalf("label = %+v", label)
	}
	if label.Interactable {
		t.Error("label should not take clicks")
	}
	if !b.Activate(true) || clicked != 1 {
		t.Errorf("Activate: clicked = %d", clicked)
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %d, want %d", n.Type, typ)
	}
	if n.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", n.Alpha)
	}
	if !n.Visible {
		t.Error("Visible should be true")
	}
	if n.Interactable {
		t.Error("Interactable should default to false")
	}
}

// --- Unique IDs ---

func TestUniqueIDs(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	if a.ID == b.ID {
		t.Errorf("IDs should differ: %d == %d", a.ID, b.ID)
	}
}

// --- Tree manipulation ---

func TestAddChild(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 || parent.Children()[0] != child {
		t.Error("parent should have exactly the child")
	}
}

func TestAddChildReparents(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	child := NewContainer("child")
	a.AddChild(child)
	b.AddChild(child)

	if a.NumChildren() != 0 {
		t.Errorf("old parent NumChildren = %d, want 0", a.NumChildren())
	}
	if child.Parent != b {
		t.Error("child should move to b")
	}
}

func TestAddChildReparentsDropsFromOldDrawOrder(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	child := NewContainer("child")
	other := NewContainer("other")
	a.AddChild(child)
	a.AddChild(other)
	if got := len(a.sorted()); got != 2 {
		t.Fatalf("sorted = %d, want 2", got)
	}

	b.AddChild(child)
	sorted := a.sorted()
	if len(sorted) != 1 || sorted[0] != other {
		t.Errorf("old parent draw order still lists the moved child: %v", sorted)
	}
}

func TestAddChildPanicsOnCycle(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	a.AddChild(b)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	b.AddChild(a)
}

func TestAddChildPanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewContainer("a").AddChild(nil)
}

func TestRemoveChildren(t *testing.T) {
	p := NewContainer("p")
	c1, c2 := NewContainer("c1"), NewContainer("c2")
	p.AddChild(c1)
	p.AddChild(c2)
	c1.SetZIndex(5)
	_ = p.sorted()

	p.RemoveChildren()
	if p.NumChildren() != 0 {
		t.Errorf("NumChildren = %d", p.NumChildren())
	}
	if c1.Parent != nil || c2.Parent != nil {
		t.Error("children should be detached")
	}
	if len(p.sorted()) != 0 {
		t.Error("sorted children should be cleared")
	}
	if c1.IsDisposed() {
		t.Error("RemoveChildren must not dispose")
	}
}

func TestSortedByZIndexStable(t *testing.T) {
	p := NewContainer("p")
	a, b, c := NewContainer("a"), NewContainer("b"), NewContainer("c")
	p.AddChild(a)
	p.AddChild(b)
	p.AddChild(c)
	a.SetZIndex(2)

	got := p.sorted()
	if got[0] != b || got[1] != c || got[2] != a {
		t.Errorf("order = %s %s %s, want b c a", got[0].Name, got[1].Name, got[2].Name)
	}
}

// --- Lookup ---

func TestFindAndClosest(t *testing.T) {
	root := NewContainer("root")
	card := NewRect("card", ColorWhite, 10, 10)
	card.Role = RoleCard
	face := NewRect("face", ColorWhite, 10, 10)
	card.AddChild(face)
	root.AddChild(card)

	if root.Find("face") != face {
		t.Error("Find should locate nested node")
	}
	if root.Find("missing") != nil {
		t.Error("Find should return nil")
	}
	if face.Closest(RoleCard) != card {
		t.Error("Closest should find enclosing card")
	}
	if face.Closest(RoleButton) != nil {
		t.Error("Closest should return nil without a match")
	}
	rects := root.FindAll(func(n *Node) bool { return n.Type == NodeTypeRect })
	if len(rects) != 2 {
		t.Errorf("FindAll = %d nodes, want 2", len(rects))
	}
}

func TestDataInt(t *testing.T) {
	n := NewContainer("n")
	if _, ok := n.DataInt("index"); ok {
		t.Error("missing key should not parse")
	}
	n.SetData("index", "7")
	if v, ok := n.DataInt("index"); !ok || v != 7 {
		t.Errorf("DataInt = %d, %v", v, ok)
	}
	n.SetData("index", "x")
	if _, ok := n.DataInt("index"); ok {
		t.Error("non-numeric value should not parse")
	}
}

func TestWorldPosition(t *testing.T) {
	root := NewContainer("root")
	root.X, root.Y = 10, 20
	child := NewContainer("child")
	child.X, child.Y = 5, 5
	root.AddChild(child)

	x, y := child.WorldPosition()
	if x != 15 || y != 25 {
		t.Errorf("WorldPosition = (%v, %v), want (15, 25)", x, y)
	}
	lx, ly := child.WorldToLocal(20, 30)
	if lx != 5 || ly != 5 {
		t.Errorf("WorldToLocal = (%v, %v), want (5, 5)", lx, ly)
	}
}

// --- Activation & disposal ---

func TestActivateGuards(t *testing.T) {
	var calls int
	var last ClickContext
	n := NewRect("n", ColorWhite, 10, 10)
	if n.Activate(false) {
		t.Error("node without OnClick should not activate")
	}
	n.OnClick = func(ctx ClickContext) { calls++; last = ctx }

	n.Disabled = true
	if n.Activate(false) {
		t.Error("disabled node should not activate")
	}
	n.Disabled = false
	if !n.Activate(true) {
		t.Error("Activate should succeed")
	}
	if calls != 1 || !last.Synthetic || last.LocalX != 5 || last.Node != n {
		t.Errorf("ctx = %+v", last)
	}

	n.Dispose()
	if n.Activate(false) {
		t.Error("disposed node should not activate")
	}
}

func TestDisposeRecursive(t *testing.T) {
	root := NewContainer("root")
	mid := NewContainer("mid")
	leaf := NewContainer("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)

	mid.Dispose()
	if root.NumChildren() != 0 {
		t.Error("disposed node should be removed from its parent")
	}
	if !mid.IsDisposed() || !leaf.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	mid.Dispose() // no-op
}
