package chunks

import (
	"reflect"
	"strings"
	"testing"

	"diffscope/internal/diff"
)

func TestMergeLineRanges(t *testing.T) {
	tests := []struct {
		name   string
		ranges []diff.LineRange
		want   []diff.LineRange
	}{
		{
			"adjacent ranges merge",
			[]diff.LineRange{{Start: 1, End: 5}, {Start: 6, End: 9}},
			[]diff.LineRange{{Start: 1, End: 9}},
		},
		{
			"one-line gap merges",
			[]diff.LineRange{{Start: 1, End: 5}, {Start: 7, End: 9}},
			[]diff.LineRange{{Start: 1, End: 9}},
		},
		{
			"distant ranges stay apart",
			[]diff.LineRange{{Start: 1, End: 3}, {Start: 10, End: 12}},
			[]diff.LineRange{{Start: 1, End: 3}, {Start: 10, End: 12}},
		},
		{
			"overlapping ranges merge",
			[]diff.LineRange{{Start: 10, End: 12}, {Start: 11, End: 15}},
			[]diff.LineRange{{Start: 10, End: 15}},
		},
		{
			"containment collapses",
			[]diff.LineRange{{Start: 1, End: 20}, {Start: 5, End: 8}},
			[]diff.LineRange{{Start: 1, End: 20}},
		},
		{
			"unsorted input",
			[]diff.LineRange{{Start: 30, End: 31}, {Start: 1, End: 2}, {Start: 2, End: 4}},
			[]diff.LineRange{{Start: 1, End: 4}, {Start: 30, End: 31}},
		},
		{
			"single range",
			[]diff.LineRange{{Start: 4, End: 4}},
			[]diff.LineRange{{Start: 4, End: 4}},
		},
		{
			"empty",
			nil,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeLineRanges(tt.ranges)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeLineRanges(%v) = %v, want %v", tt.ranges, got, tt.want)
			}
			again := MergeLineRanges(got)
			if !reflect.DeepEqual(again, got) {
				t.Errorf("merge not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestMergeLineRangesDoesNotMutateInput(t *testing.T) {
	in := []diff.LineRange{{Start: 9, End: 10}, {Start: 1, End: 2}}
	MergeLineRanges(in)
	want := []diff.LineRange{{Start: 9, End: 10}, {Start: 1, End: 2}}
	if !reflect.DeepEqual(in, want) {
		t.Errorf("input mutated: %v", in)
	}
}

func TestFormat(t *testing.T) {
	cs := []Chunk{
		{FilePath: "pkg/a.go", Content: "func A() {}", Kind: FileContent, StartLine: 3, EndLine: 3},
		{FilePath: "pkg/b.go", Content: "type B struct{}", Kind: Definition, StartLine: 7, EndLine: 9},
		{Content: "[context truncated]", Kind: Note},
	}

	got := Format(cs)
	want := "\n[FileContent - pkg/a.go:3-3]\nfunc A() {}\n" +
		"\n[Definition - pkg/b.go:7-9]\ntype B struct{}\n" +
		"\n[Note]\n[context truncated]\n"
	if got != want {
		t.Errorf("Format mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestFormatHeaderWithoutLines(t *testing.T) {
	got := Format([]Chunk{{FilePath: "README.md", Content: "intro", Kind: Reference}})
	if !strings.Contains(got, "[Reference - README.md]\n") {
		t.Errorf("header should omit the line span when absent: %q", got)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
}
