package parser

import (
	"github.com/luthersystems/sapling/sap"
)

// fixupLet rewrites bare let forms so that every let carries a body
// block.  A bare let inside a block takes the rest of the block as its
// body:
//
//	{ let x = 5; f(x); g(x) }  ==>  { let x = 5 { f(x); g(x) } }
//
// A bare let anywhere else gets an empty body, which fails when
// evaluated.  Def forms are left alone.
func fixupLet(v *sap.Node) *sap.Node {
	switch v.Type {
	case sap.NLet:
		if len(v.Cells) == 2 {
			return sap.Let(v.Cells[0], fixupLet(v.Cells[1]), sap.Block())
		}
		return fixupCells(v)
	case sap.NBlock:
		cells := make([]*sap.Node, 0, len(v.Cells))
		for i, stmt := range v.Cells {
			if stmt.Type == sap.NLet && len(stmt.Cells) == 2 {
				rest := fixupLet(sap.Block(v.Cells[i+1:]...))
				cells = append(cells, sap.Let(stmt.Cells[0], fixupLet(stmt.Cells[1]), rest))
				return sap.Block(cells...)
			}
			cells = append(cells, fixupLet(stmt))
		}
		return sap.Block(cells...)
	default:
		if len(v.Cells) == 0 {
			return v
		}
		return fixupCells(v)
	}
}

func fixupCells(v *sap.Node) *sap.Node {
	cells := make([]*sap.Node, len(v.Cells))
	for i, cell := range v.Cells {
		cells[i] = fixupLet(cell)
	}
	cp := *v
	cp.Cells = cells
	return &cp
}
