/*
Package specloom is a deterministic mapping engine that turns a raw
design tree export into a platform UI component specification, one
explicit decision at a time.

It implements an "agent-in-the-loop" workflow: the engine indexes the
tree, walks it breadth-first, and surfaces one node at a time together
with extracted facts, parent-imposed requirements, and deterministic
hints. The caller (typically an LLM agent or a human behind a CLI)
answers with decision patches; the engine validates them against
per-platform rule tables and finally exports the decided tree, folding
decorative children into their controls.

# Concept

The engine itself is stateless: every operation takes an explicit
session state, which a StateStore persists between calls ("Durable
Execution"). This hexagonal split lets the same core drive a CLI, an
HTTP API, and an MCP server for agent toolchains.

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/specloom/specloom"
		"github.com/specloom/specloom/pkg/domain"
	)

	func main() {
		client, err := specloom.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		input, _ := os.Open("design.json")
		defer input.Close()

		status, err := client.Init(ctx, "session-123", input, domain.UIKit)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("indexed %d nodes, next: %s", status.NodeCount, status.NextNodeID)

		// Loop: client.Next -> decide -> client.Apply ... then
		// client.Validate and client.Export.
	}
*/
package specloom
