// Package prompts implements MCP prompt handlers for the dig workflows.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the dig-start MCP prompt.
// It guides the AI to load a project's stored context at session start.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("dig-start",
		mcp.WithPromptDescription(
			"Load the stored context for a project at the start of a session: "+
				"recent branch activity, uncommitted work, the knowledge survey, "+
				"and open checklists.",
		),
		mcp.WithArgument("project",
			mcp.ArgumentDescription("Project to dig into"),
		),
		mcp.WithArgument("branch",
			mcp.ArgumentDescription("Branch you are working on (for the uncommitted-work check)"),
		),
	)
}

// Handle processes the dig-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	project := ""
	branch := ""
	if args := req.Params.Arguments; args != nil {
		project = args["project"]
		branch = args["branch"]
	}

	if project == "" {
		return &mcp.GetPromptResult{
			Description: "Dig into a project",
			Messages: []mcp.PromptMessage{
				{
					Role: mcp.RoleUser,
					Content: mcp.NewTextContent(
						"I'm starting a work session but haven't said which project.\n\n" +
							"Please run `list_branch_notes` to see which projects have recorded " +
							"history, show me the list, and ask which one to dig into. Then load " +
							"that project's context: recent timeline, uncommitted work, survey, " +
							"and open checklists.",
					),
				},
			},
		}, nil
	}

	branchStep := "2. Ask me which branch I'm on, then run `read_branch_notes` with scope='uncommitted' for it\n"
	if branch != "" {
		branchStep = fmt.Sprintf(
			"2. Run `read_branch_notes` with project='%s', branch='%s', scope='uncommitted'\n",
			project, branch,
		)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Dig into project: %s", project),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I'm starting a work session on project '%s'. Load my context.\n\n"+
						"Please:\n"+
						"1. Run `dig_timeline` with project='%s' and days=7 for the recent activity\n"+
						"%s"+
						"3. Run `dig_survey` with project='%s' and detail_level='summary'\n"+
						"4. Run `list_checklists` with project='%s' and point out anything unfinished\n"+
						"5. Summarize in a few lines: what I was doing, what is still uncommitted, "+
						"and what needs attention first",
					project, project, branchStep, project, project,
				)),
			},
		},
	}, nil
}
