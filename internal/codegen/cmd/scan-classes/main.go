// Command scan-classes prints the class metadata of a folder as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Alia5/annogen/internal/codegen/meta"
	"github.com/Alia5/annogen/internal/codegen/scanner"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: scan-classes <folder>")
		os.Exit(2)
	}
	folder := os.Args[1]

	classes, err := scanner.New(nil).Load(folder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to scan classes: %v\n", err)
		os.Exit(1)
	}

	output, err := json.MarshalIndent(meta.Metadata{Folder: folder, Classes: classes}, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}
