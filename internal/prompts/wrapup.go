package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// WrapupPrompt handles the dig-wrapup MCP prompt.
// It instructs the AI to record the session before it ends: note entry,
// commit separator, checklist review, and anything worth keeping.
type WrapupPrompt struct{}

// NewWrapupPrompt creates a WrapupPrompt.
func NewWrapupPrompt() *WrapupPrompt {
	return &WrapupPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *WrapupPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("dig-wrapup",
		mcp.WithPromptDescription(
			"Close out a work session: write what happened into the branch note, "+
				"seal committed work with a separator, review open checklists, and "+
				"save anything learned as a knowledge doc.",
		),
		mcp.WithArgument("project",
			mcp.ArgumentDescription("Project the session was on"),
		),
		mcp.WithArgument("branch",
			mcp.ArgumentDescription("Branch the session was on"),
		),
	)
}

// Handle processes the dig-wrapup prompt request.
func (p *WrapupPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	project := "the current project"
	branch := "the current branch"
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["project"]; ok && v != "" {
			project = fmt.Sprintf("'%s'", v)
		}
		if v, ok := args["branch"]; ok && v != "" {
			branch = fmt.Sprintf("'%s'", v)
		}
	}

	return &mcp.GetPromptResult{
		Description: "Wrap up the work session",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"We're wrapping up this session on %s, branch %s.\n\n"+
						"Please:\n"+
						"1. Summarize what we did this session and run `update_branch_note` with that summary\n"+
						"2. If we made a git commit, run `add_commit_separator` with its hash and message "+
						"so the logged entries are sealed\n"+
						"3. Run `list_checklists` for the project and ask me about any unchecked items we touched\n"+
						"4. If we learned something worth keeping (a pattern, a gotcha, a decision), "+
						"run `save_knowledge` with it\n"+
						"5. Finish with `read_branch_notes` scope='uncommitted' so I can see what is still unsealed",
					project, branch,
				)),
			},
		},
	}, nil
}
