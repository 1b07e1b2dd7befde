package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diffscope/internal/diff"
)

var (
	diffParsePath string
	diffPathLabel string
)

var diffCmd = &cobra.Command{
	Use:   "diff FILE_OLD FILE_NEW",
	Short: "Assemble or parse a unified diff",
	Long: `Assembles a unified diff from two file contents, or parses existing
diff text into structured records.

Examples:
  diffscope diff old/main.go new/main.go        # print a rendered diff
  diffscope diff --parse change.patch           # print parsed records as JSON
  diffscope diff /dev/null new/main.go --path main.go`,
	Run: runDiffCmd,
}

func init() {
	diffCmd.Flags().StringVar(&diffParsePath, "parse", "", "Parse diff text from a file instead of assembling")
	diffCmd.Flags().StringVar(&diffPathLabel, "path", "", "Path label for the assembled diff (default: FILE_NEW)")
	rootCmd.AddCommand(diffCmd)
}

func runDiffCmd(cmd *cobra.Command, args []string) {
	if diffParsePath != "" {
		runDiffParse(diffParsePath)
		return
	}

	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Error: two file arguments required (or use --parse FILE)")
		os.Exit(1)
	}

	oldText, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", args[0], err)
		os.Exit(1)
	}
	newText, err := os.ReadFile(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", args[1], err)
		os.Exit(1)
	}

	label := diffPathLabel
	if label == "" {
		label = args[1]
	}

	d := diff.AssembleDiff(string(oldText), string(newText), label)
	if len(d.Hunks) == 0 {
		fmt.Println("Files are identical.")
		return
	}
	fmt.Print(diff.FormatUnifiedDiff(d))
}

func runDiffParse(path string) {
	text, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading diff file: %v\n", err)
		os.Exit(1)
	}

	diffs, err := diff.ParseUnifiedDiff(string(text))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(diffs, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error serializing records: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
