package lsp

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestFlattenSymbolInformation(t *testing.T) {
	result := json.RawMessage(`[
		{"name":"compute","kind":12,"location":{"uri":"file:///a.rs","range":{"start":{"line":9,"character":0},"end":{"line":12,"character":1}}}},
		{"name":"Helper","kind":5,"location":{"uri":"file:///a.rs","range":{"start":{"line":20,"character":0},"end":{"line":30,"character":1}}}}
	]`)

	got := flattenSymbols(result)
	if len(got) != 2 {
		t.Fatalf("got %d symbols, want 2", len(got))
	}
	if got[0].Name != "compute" || got[0].StartLine != 10 || got[0].EndLine != 13 {
		t.Errorf("first = %+v, want compute 10-13", got[0])
	}
	if got[1].Name != "Helper" || got[1].StartLine != 21 || got[1].EndLine != 31 {
		t.Errorf("second = %+v, want Helper 21-31", got[1])
	}
}

func TestFlattenDocumentSymbolTree(t *testing.T) {
	result := json.RawMessage(`[
		{
			"name":"Server","kind":5,
			"range":{"start":{"line":0},"end":{"line":50}},
			"selectionRange":{"start":{"line":0},"end":{"line":0}},
			"children":[
				{
					"name":"Start","kind":6,
					"range":{"start":{"line":10},"end":{"line":20}},
					"selectionRange":{"start":{"line":10},"end":{"line":10}},
					"children":[
						{"name":"inner","kind":12,"range":{"start":{"line":12},"end":{"line":14}}}
					]
				},
				{"name":"Stop","kind":6,"range":{"start":{"line":30},"end":{"line":40}}}
			]
		}
	]`)

	got := flattenSymbols(result)
	wantNames := []string{"Server", "Start", "inner", "Stop"}
	if len(got) != len(wantNames) {
		t.Fatalf("got %d symbols (%v), want %d", len(got), got, len(wantNames))
	}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("symbol %d = %q, want %q (document order)", i, got[i].Name, name)
		}
	}

	// selectionRange wins over range when both are present.
	if got[0].StartLine != 1 || got[0].EndLine != 1 {
		t.Errorf("Server range = %d-%d, want 1-1 from selectionRange", got[0].StartLine, got[0].EndLine)
	}
	// range is used when selectionRange is absent.
	if got[3].StartLine != 31 || got[3].EndLine != 41 {
		t.Errorf("Stop range = %d-%d, want 31-41", got[3].StartLine, got[3].EndLine)
	}
}

func TestFlattenEndBeforeStart(t *testing.T) {
	result := json.RawMessage(`[{"name":"odd","range":{"start":{"line":7},"end":{"line":3}}}]`)

	got := flattenSymbols(result)
	if len(got) != 1 {
		t.Fatalf("got %d symbols, want 1", len(got))
	}
	if got[0].EndLine != got[0].StartLine {
		t.Errorf("range = %d-%d, want end clamped to start", got[0].StartLine, got[0].EndLine)
	}
}

func TestFlattenDeepNesting(t *testing.T) {
	const depth = 2000

	var b strings.Builder
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&b, `[{"name":"n%d","range":{"start":{"line":%d},"end":{"line":%d}},"children":`, i, i, i)
	}
	b.WriteString("[]")
	for i := 0; i < depth; i++ {
		b.WriteString("}]")
	}

	got := flattenSymbols(json.RawMessage(b.String()))
	if len(got) != depth {
		t.Fatalf("got %d symbols, want %d", len(got), depth)
	}
	if got[0].Name != "n0" || got[depth-1].Name != fmt.Sprintf("n%d", depth-1) {
		t.Errorf("order lost: first=%s last=%s", got[0].Name, got[depth-1].Name)
	}
}

func TestFlattenUnusableResults(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"null", `null`},
		{"empty array", `[]`},
		{"object not array", `{"name":"x"}`},
		{"not JSON", `garbage`},
		{"nameless entries", `[{"range":{"start":{"line":1},"end":{"line":2}}}]`},
		{"rangeless entries", `[{"name":"x"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flattenSymbols(json.RawMessage(tt.input)); len(got) != 0 {
				t.Errorf("flattenSymbols(%s) = %v, want none", tt.input, got)
			}
		})
	}
}
