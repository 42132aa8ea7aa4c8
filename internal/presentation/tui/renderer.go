// Package tui renders engine output for human terminals. The JSON
// surfaces never go through here.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/specloom/specloom/pkg/domain"
)

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// SkeletonMarkdown formats a tree outline as nested markdown list items,
// one per node, ready for the glamour renderer.
func SkeletonMarkdown(sk *domain.Skeleton) string {
	var b strings.Builder
	b.WriteString("# Tree Outline\n\n")
	writeSkeleton(&b, sk, 0)
	return b.String()
}

func writeSkeleton(b *strings.Builder, sk *domain.Skeleton, level int) {
	indent := strings.Repeat("  ", level)
	fmt.Fprintf(b, "%s- **%s** `%s` (%s", indent, sk.Name, sk.ID, sk.Type)
	if sk.ChildCount > 0 {
		fmt.Fprintf(b, ", %d children", sk.ChildCount)
	}
	b.WriteString(")\n")
	for _, c := range sk.Children {
		writeSkeleton(b, c, level+1)
	}
}
