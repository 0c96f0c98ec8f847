package kiosk

// nodeContainsLocal tests whether (lx, ly) falls inside a node's box.
// Nodes without a size are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.Width == 0 && n.Height == 0 {
		return false
	}
	return Rect{Width: n.Width, Height: n.Height}.Contains(lx, ly)
}

// collectInteractable walks the tree in painter order (DFS, ZIndex-sorted),
// appending hit-testable nodes to buf. Skips Visible=false subtrees. A node
// takes part in hit testing when it is Interactable; its descendants are
// still visited so an interactable child of a plain container can be hit.
func collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || n.disposed {
		return buf
	}
	if n.Interactable {
		buf = append(buf, n)
	}
	for _, child := range n.sorted() {
		buf = collectInteractable(child, buf)
	}
	return buf
}

// HitTest finds the topmost interactable node at screen pixel (px, py) under
// root. Returns nil if nothing is hit.
func HitTest(root *Node, px, py float64) *Node {
	if root == nil {
		return nil
	}
	hits := collectInteractable(root, nil)

	// Iterate backward (reverse painter order): topmost visual node first.
	for i := len(hits) - 1; i >= 0; i-- {
		n := hits[i]
		lx, ly := n.WorldToLocal(px, py)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// ClickTarget is the outcome of resolving a synthetic click.
type ClickTarget struct {
	// Node is the topmost interactable node under the point, or nil.
	Node *Node
	// Activated reports whether a button-role node was activated.
	Activated bool
	// CardIndex is the "index" data attribute of the enclosing card-role
	// node, or -1 when the point is not on a card.
	CardIndex int
}

// ResolveClick maps a normalized gesture click at (x, y) onto the viewport,
// hit tests the tree under root and acts on what it finds: a button-role
// node is activated directly; a node that is (or sits inside) a card-role
// node reports the card's index. Points over nothing interactable are
// ignored.
func ResolveClick(root *Node, vp Viewport, x, y float64) ClickTarget {
	target := ClickTarget{CardIndex: -1}
	px, py := vp.ToPixels(x, y)
	hit := HitTest(root, px, py)
	if hit == nil {
		return target
	}
	target.Node = hit
	if hit.Role == RoleButton {
		target.Activated = hit.Activate(true)
	}
	if card := hit.Closest(RoleCard); card != nil {
		if idx, ok := card.DataInt("index"); ok {
			target.CardIndex = idx
		}
	}
	return target
}
