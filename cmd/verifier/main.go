// Package main provides the verifier command that checks output tables
// against the hashes recorded in their manifest.
package main

import (
	"flag"
	"fmt"
	"os"

	"hotelstar/internal/formatter"
	"hotelstar/pkg/metadata"
)

func main() {
	dir := flag.String("dir", "output", "Directory holding the output tables and manifest.yaml")
	flag.Parse()

	fmt.Printf("📂 Verifying: %s\n", *dir)

	m, err := metadata.Verify(*dir)
	if m != nil {
		rows := make([][]string, 0, len(m.Tables))
		for _, name := range m.Names() {
			rows = append(rows, []string{name, m.Tables[name]})
		}

		fmt.Printf("🔍 Run %s (manifest v%s)\n\n", m.RunID, m.Version)
		fmt.Print(formatter.Table([]string{"table", "sha256"}, rows))
		fmt.Println()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Verification failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ All tables match their recorded hashes")
}
