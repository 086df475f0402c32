package morfeusz

import (
	"math"
	"slices"
)

// edge is a lexicon entry matching token[from:to].
type edge struct {
	from, to int32
	entry    int32
}

// graph is the interpretation graph of one token. Nodes are the character
// offsets 0..n; every walk from 0 to n is one interpretation run.
type graph struct {
	n int
	// first[i]..first[i+1] is the range of edges leaving node i.
	first []int32
	edges []edge
	// paths[i] is the number of walks from node i to n.
	paths []int
	// segs[i] is the total number of edges over all those walks.
	segs []int
}

// buildGraph adds an edge for every entry that matches the token at some
// offset and respects the segmentation flags. runes is the token as
// written, folded its lowercased copy.
func buildGraph(lex *Lexicon, runes, folded []rune, caseSensitive bool) *graph {
	n := len(runes)
	g := &graph{
		n:     n,
		first: make([]int32, n+1),
		paths: make([]int, n+1),
		segs:  make([]int, n+1),
	}
	for i := 0; i < n; i++ {
		start := len(g.edges)
		g.first[i] = int32(start)
		lex.walk(folded, i, func(end int, ids []int32) {
			for _, id := range ids {
				e := &lex.entries[id]
				if i == 0 && e.Flags.Has(FlagBound) {
					continue
				}
				if end < n && !e.Flags.Has(FlagSplit) {
					continue
				}
				if caseSensitive && !sameRunes(e.Form, runes[i:end]) {
					continue
				}
				g.edges = append(g.edges, edge{from: int32(i), to: int32(end), entry: id})
			}
		})
		// walk reports shorter fragments first; longer ones must lead.
		// The sort is stable, so equal spans keep declaration order.
		slices.SortStableFunc(g.edges[start:], func(x, y edge) int {
			return int(y.to - x.to)
		})
	}
	g.first[n] = int32(len(g.edges))
	g.count()
	return g
}

// sameRunes reports whether s spells exactly rs.
func sameRunes(s string, rs []rune) bool {
	i := 0
	for _, r := range s {
		if i >= len(rs) || rs[i] != r {
			return false
		}
		i++
	}
	return i == len(rs)
}

// out returns the edges leaving node i.
func (g *graph) out(i int) []edge {
	if i >= g.n {
		return nil
	}
	return g.edges[g.first[i]:g.first[i+1]]
}

// count fills paths and segs backwards from the final node. Counts
// saturate instead of wrapping.
func (g *graph) count() {
	g.paths[g.n] = 1
	for i := g.n - 1; i >= 0; i-- {
		for _, e := range g.out(i) {
			g.paths[i] = satAdd(g.paths[i], g.paths[e.to])
			g.segs[i] = satAdd(g.segs[i], satAdd(g.paths[e.to], g.segs[e.to]))
		}
	}
}

func satAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// covered reports whether at least one walk spans the whole token.
func (g *graph) covered() bool {
	return g.n > 0 && g.paths[0] > 0
}

// needed returns the number of segments the full enumeration emits.
func (g *graph) needed() int {
	return g.segs[0]
}

// frame is a DFS position: a node and the next edge to try from it.
type frame struct {
	node int32
	next int32
}

// emit appends every walk from 0 to n to out, one run after another.
// Edges are taken in graph order, so the output is deterministic. Edges
// into nodes that cannot reach n are skipped.
func (g *graph) emit(lex *Lexicon, token string, byteOff []int, out []Segment) []Segment {
	if !g.covered() {
		return out
	}
	stack := []frame{{node: 0, next: g.first[0]}}
	path := make([]int32, 0, 8)
	for len(stack) > 0 {
		top := len(stack) - 1
		node := int(stack[top].node)

		if node == g.n {
			for _, ei := range path {
				e := g.edges[ei]
				entry := &lex.entries[e.entry]
				out = append(out, Segment{
					P:     int(e.from),
					K:     int(e.to),
					Form:  token[byteOff[e.from]:byteOff[e.to]],
					Lemma: entry.Lemma,
					Tag:   entry.Tag,
				})
			}
			stack = stack[:top]
			path = path[:len(path)-1]
			continue
		}

		end := g.first[node+1]
		pushed := false
		for stack[top].next < end {
			ei := stack[top].next
			stack[top].next++
			to := g.edges[ei].to
			if g.paths[to] == 0 {
				continue
			}
			path = append(path, ei)
			stack = append(stack, frame{node: to, next: g.first[to]})
			pushed = true
			break
		}
		if !pushed {
			stack = stack[:top]
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
		}
	}
	return out
}

// runeOffsets returns the byte offset of every character boundary of s,
// including len(s).
func runeOffsets(s string, n int) []int {
	off := make([]int, 0, n+1)
	for i := range s {
		off = append(off, i)
	}
	return append(off, len(s))
}
