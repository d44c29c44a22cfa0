package cfgbuilder

import "github.com/rainoftime/crab/internal/ir"

// block is the concrete ir.Block implementation.
type block struct {
	label ir.Label
	stmts []ir.Stmt
	succs []ir.Label
	preds []ir.Label
}

func (b *block) Label() ir.Label   { return b.label }
func (b *block) Stmts() []ir.Stmt  { return b.stmts }
func (b *block) Succs() []ir.Label { return b.succs }
func (b *block) Preds() []ir.Label { return b.preds }

var _ ir.Block = (*block)(nil)

// Graph is a mutable, concrete ir.CFG. Construct one with New, add
// blocks with SetStmts, wire control flow with AddEdge, then use it directly
// wherever an ir.CFG is expected.
type Graph struct {
	blocks  map[ir.Label]*block
	order   []ir.Label
	entry   ir.Label
	exit    ir.Label
	hasExit bool
}

// New creates an empty graph with the given entry label. The entry block
// is created automatically.
func New(entry ir.Label) *Graph {
	g := &Graph{blocks: make(map[ir.Label]*block), entry: entry}
	g.add(entry)
	return g
}

// add returns the block for l, creating it (with no statements or edges)
// if it doesn't exist yet.
func (g *Graph) add(l ir.Label) *block {
	if b, ok := g.blocks[l]; ok {
		return b
	}
	b := &block{label: l}
	g.blocks[l] = b
	g.order = append(g.order, l)
	return b
}

// SetStmts replaces the statement list of block l, creating it if needed.
func (g *Graph) SetStmts(l ir.Label, stmts []ir.Stmt) {
	g.add(l).stmts = stmts
}

// AddEdge adds a control-flow edge from -> to, creating either endpoint
// if it doesn't exist yet.
func (g *Graph) AddEdge(from, to ir.Label) {
	f := g.add(from)
	t := g.add(to)
	f.succs = append(f.succs, to)
	t.preds = append(t.preds, from)
}

// SetExit marks l as the distinguished exit block.
func (g *Graph) SetExit(l ir.Label) {
	g.add(l)
	g.exit = l
	g.hasExit = true
}

func (g *Graph) Entry() ir.Label { return g.entry }

func (g *Graph) Exit() (ir.Label, bool) { return g.exit, g.hasExit }

// Block implements ir.CFG.
func (g *Graph) Block(l ir.Label) (ir.Block, bool) {
	b, ok := g.blocks[l]
	return b, ok
}

func (g *Graph) Blocks() []ir.Label {
	out := make([]ir.Label, len(g.order))
	copy(out, g.order)
	return out
}

var _ ir.CFG = (*Graph)(nil)
