package engine

import "github.com/roach88/tally/internal/ir"

// DemoProgram returns the canonical driver routine: append 5, 2, 8, 1,
// print the sequence, sort it, print again, print the sum.
//
// Its fixed literal output is:
//
//	Original data: 5 2 8 1
//	Sorted data: 1 2 5 8
//	Sum: 16
//
// (each data line carries a trailing space before the line break).
func DemoProgram() *ir.Program {
	return &ir.Program{
		Name:        "demo",
		Description: "canonical sequence aggregator driver",
		Steps: []ir.Step{
			{Op: ir.OpAppend, Values: []int64{5, 2, 8, 1}},
			{Op: ir.OpRender, Label: "Original data"},
			{Op: ir.OpSort},
			{Op: ir.OpRender, Label: "Sorted data"},
			{Op: ir.OpSum, Label: "Sum"},
		},
	}
}
