package query

// Normalize returns a copy of siblings with connector invariants applied:
// the first element loses its connector and later elements without one are
// joined by And. Explicit And/Or choices on later elements are kept.
func Normalize[N Node](siblings []Sibling[N]) []Sibling[N] {
	out := make([]Sibling[N], len(siblings))
	copy(out, siblings)
	for i := range out {
		switch {
		case i == 0:
			out[i].Connector = None
		case out[i].Connector == None:
			out[i].Connector = And
		}
	}
	return out
}

// normalizeTree applies Normalize to every sibling list inside n.
func normalizeTree(n Node) Node {
	g, ok := n.(Group)
	if !ok {
		return n
	}
	children := make([]Sibling[Node], len(g.Children))
	for i, ch := range g.Children {
		children[i] = ch
		if ch.Node != nil {
			children[i].Node = normalizeTree(ch.Node)
		}
	}
	g.Children = Normalize(children)
	return g
}

// IsNormalized reports whether siblings already satisfy the invariants
// Normalize establishes.
func IsNormalized[N Node](siblings []Sibling[N]) bool {
	for i, s := range siblings {
		if i == 0 && s.Connector != None {
			return false
		}
		if i > 0 && s.Connector != And && s.Connector != Or {
			return false
		}
	}
	return true
}

// effectiveConnector is the connector a serializer emits for position i.
// The first position never carries one, whatever is stored.
func effectiveConnector(i int, stored Connector) Connector {
	if i == 0 {
		return None
	}
	return stored
}
