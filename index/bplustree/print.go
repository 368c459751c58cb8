package bplus

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Print writes one line per node, indented two spaces per level:
//
//	[Internal] 10 20
//	  [Leaf] 5 6 7
//	  [Leaf] 10 12 17
//	  [Leaf] 20 30
//
// It is meant for debugging only.
func (t *Tree) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	t.printRec(bw, t.root, 0)
	return bw.Flush()
}

func (t *Tree) printRec(w *bufio.Writer, id nodeID, level int) {
	w.WriteString(strings.Repeat("  ", level))
	switch n := t.nodes.get(id).(type) {
	case *leafNode:
		w.WriteString("[Leaf]")
		writeKeys(w, n.keys)
	case *internalNode:
		w.WriteString("[Internal]")
		writeKeys(w, n.keys)
		for _, child := range n.children {
			t.printRec(w, child, level+1)
		}
	}
}

func writeKeys(w *bufio.Writer, keys []uint64) {
	for _, k := range keys {
		fmt.Fprintf(w, " %d", k)
	}
	w.WriteByte('\n')
}

// String renders the tree the same way as Print.
func (t *Tree) String() string {
	var sb strings.Builder
	_ = t.Print(&sb)
	return sb.String()
}

// ExportDOT writes a Graphviz rendering of the tree. Leaves share a rank and
// the leaf chain is drawn as dashed edges.
func (t *Tree) ExportDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph BPlusTree {")
	fmt.Fprintln(bw, "  graph [ranksep=0.8, nodesep=0.5, bgcolor=\"#ffffff\", rankdir=TB];")
	fmt.Fprintln(bw, "  node [shape=none, fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(bw, "  edge [arrowsize=0.8, color=\"#444444\"];")

	var leaves []nodeID
	var exportRec func(id nodeID)
	exportRec = func(id nodeID) {
		switch n := t.nodes.get(id).(type) {
		case *leafNode:
			fill := 100 * float64(len(n.keys)) / float64(t.maxKeys())
			label := fmt.Sprintf(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">
				<TR><TD COLSPAN="2" BGCOLOR="#D5E8D4"><B>NODE %d (LEAF)</B><BR/><FONT POINT-SIZE="8">Fill: %.1f%%</FONT></TD></TR>
				<TR><TD PORT="keys" BGCOLOR="#F5F5F5" ALIGN="LEFT">`, id, fill)
			for _, k := range n.keys {
				label += fmt.Sprintf("<B>%d</B><BR/>", k)
			}
			next := "NULL"
			if n.next != noNode {
				next = fmt.Sprintf("%d", n.next)
			}
			label += fmt.Sprintf(`</TD><TD PORT="next" BGCOLOR="#E1F5FE" VALIGN="MIDDLE">Next: %s</TD></TR></TABLE>>`, next)
			fmt.Fprintf(bw, "  node%d [label=%s];\n", id, label)
			leaves = append(leaves, id)

		case *internalNode:
			fill := 100 * float64(len(n.keys)) / float64(t.maxKeys())
			label := fmt.Sprintf(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">
				<TR><TD COLSPAN="%d" BGCOLOR="#DAE8FC"><B>NODE %d (INTERNAL)</B><BR/><FONT POINT-SIZE="8">Fill: %.1f%%</FONT></TD></TR><TR>`, len(n.keys)*2+1, id, fill)
			for i, k := range n.keys {
				label += fmt.Sprintf(`<TD PORT="f%d" BGCOLOR="#E1F5FE">P:%d</TD><TD BGCOLOR="#FFFFFF"><B>%d</B></TD>`, i, n.children[i], k)
			}
			last := len(n.keys)
			label += fmt.Sprintf(`<TD PORT="f%d" BGCOLOR="#E1F5FE">P:%d</TD></TR></TABLE>>`, last, n.children[last])
			fmt.Fprintf(bw, "  node%d [label=%s];\n", id, label)

			for i, child := range n.children {
				exportRec(child)
				fmt.Fprintf(bw, "  node%d:f%d -> node%d;\n", id, i, child)
			}
		}
	}
	exportRec(t.root)

	if len(leaves) > 1 {
		fmt.Fprintln(bw, "  { rank=same;")
		for _, id := range leaves {
			fmt.Fprintf(bw, "    node%d;\n", id)
		}
		fmt.Fprintln(bw, "  }")
		for _, id := range leaves {
			if next := t.nodes.leaf(id).next; next != noNode {
				fmt.Fprintf(bw, "  node%d:next -> node%d [style=dashed, color=\"#03A9F4\", constraint=false, tailclip=false];\n", id, next)
			}
		}
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
