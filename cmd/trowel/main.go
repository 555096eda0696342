// Trowel: Knowledge Archaeology MCP Server
//
// A universal MCP server that integrates with any AI coding tool
// (Claude Code, OpenCode, Gemini CLI, Codex, Cursor, VS Code Copilot)
// to keep branch notes, knowledge documents, and project context on the
// local filesystem.
//
// Usage:
//
//	trowel serve     # Start MCP server (stdio transport)
//	trowel index     # Rebuild the search index
//	trowel update    # Update to the latest version
package main

import "github.com/troweldev/trowel/internal/cli"

func main() {
	cli.Execute()
}
