package query

import "strings"

// ToText renders f as a human-readable expression:
//
//	Expr      := "(" GroupBody ")" (" " Connector " (" GroupBody ")")*
//	GroupBody := Item (" " Connector " " Item)*
//	Item      := Field " " Operator ' "' Value '"' | "(" GroupBody ")"
//
// Later siblings without a stored connector render as AND. Values are
// always quoted. An empty forest renders as "" and an empty group as "()".
func ToText(f Forest) string {
	var b strings.Builder
	for i, root := range f {
		writeConnector(&b, i, root.Connector)
		writeGroup(&b, root.Node)
	}
	return b.String()
}

// GroupText renders a single group as it appears inside ToText output.
func GroupText(g Group) string {
	var b strings.Builder
	writeGroup(&b, g)
	return b.String()
}

func writeConnector(b *strings.Builder, i int, c Connector) {
	if i == 0 {
		return
	}
	b.WriteByte(' ')
	b.WriteString(string(c.OrDefault()))
	b.WriteByte(' ')
}

func writeGroup(b *strings.Builder, g Group) {
	b.WriteByte('(')
	i := 0
	for _, ch := range g.Children {
		if ch.Node == nil {
			continue
		}
		writeConnector(b, i, ch.Connector)
		i++
		switch n := ch.Node.(type) {
		case Rule:
			b.WriteString(n.Field)
			b.WriteByte(' ')
			b.WriteString(n.Operator)
			b.WriteString(` "`)
			b.WriteString(n.Value.Text())
			b.WriteByte('"')
		case Group:
			writeGroup(b, n)
		}
	}
	b.WriteByte(')')
}
