package lsp

import "encoding/json"

// rawSymbol covers both documentSymbol result shapes: hierarchical
// DocumentSymbol nodes (range/selectionRange plus children) and flat
// SymbolInformation items (location.range).
type rawSymbol struct {
	Name           string       `json:"name"`
	Range          *rawRange    `json:"range"`
	SelectionRange *rawRange    `json:"selectionRange"`
	Location       *rawLocation `json:"location"`
	Children       []rawSymbol  `json:"children"`
}

type rawLocation struct {
	Range *rawRange `json:"range"`
}

type rawRange struct {
	Start rawPosition `json:"start"`
	End   rawPosition `json:"end"`
}

type rawPosition struct {
	Line int `json:"line"`
}

// flattenSymbols converts a documentSymbol result into a flat list in
// document order, translating the protocol's 0-based lines to 1-based
// inclusive ranges. The tree is walked with an explicit stack so
// response depth cannot overflow the call stack. Unusable results
// flatten to nothing.
func flattenSymbols(result json.RawMessage) []Symbol {
	if len(result) == 0 {
		return nil
	}
	var top []rawSymbol
	if err := json.Unmarshal(result, &top); err != nil {
		return nil
	}

	var out []Symbol
	stack := make([]rawSymbol, 0, len(top))
	for i := len(top) - 1; i >= 0; i-- {
		stack = append(stack, top[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Name != "" {
			if r := node.pickRange(); r != nil {
				start := r.Start.Line + 1
				end := r.End.Line + 1
				if end < start {
					end = start
				}
				out = append(out, Symbol{Name: node.Name, StartLine: start, EndLine: end})
			}
		}

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return out
}

// pickRange prefers the selection range, then the node range, then the
// flat-shape location range.
func (s rawSymbol) pickRange() *rawRange {
	if s.SelectionRange != nil {
		return s.SelectionRange
	}
	if s.Range != nil {
		return s.Range
	}
	if s.Location != nil {
		return s.Location.Range
	}
	return nil
}
