package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the wizard tools with the MCP server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("wizard-state",
			mcp.WithDescription("Show the current wizard step, checklist and all artifacts as JSON"),
		),
		s.handleState,
	)

	// Input step
	s.mcpServer.AddTool(
		mcp.NewTool("set-source",
			mcp.WithDescription("Set the source content the posts are written from"),
			mcp.WithString("content", mcp.Required(),
				mcp.Description("Announcement, article excerpt or notes"),
			),
		),
		s.handleSetSource,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("select-platforms",
			mcp.WithDescription("Replace the platform selection"),
			mcp.WithArray("platforms", mcp.Required(),
				mcp.Description("Platform ids or labels: instagram, linkedin, x, facebook"),
				mcp.Items(map[string]any{"type": "string"}),
			),
		),
		s.handleSelectPlatforms,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("generate-posts",
			mcp.WithDescription("Generate post text for every selected platform and move to the text step"),
		),
		s.handleGeneratePosts,
	)

	// Text step
	s.mcpServer.AddTool(
		mcp.NewTool("edit-post",
			mcp.WithDescription("Edit the text or hashtags of one platform's post"),
			mcp.WithString("platform", mcp.Required(), mcp.Description("Platform id")),
			mcp.WithString("field", mcp.Required(),
				mcp.Description("Field to edit"),
				mcp.Enum("text", "hashtags"),
			),
			mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
		),
		s.handleEditPost,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("regenerate-text",
			mcp.WithDescription("Regenerate one platform's post text"),
			mcp.WithString("platform", mcp.Required(), mcp.Description("Platform id")),
		),
		s.handleRegenerateText,
	)

	// Navigation
	s.mcpServer.AddTool(
		mcp.NewTool("advance",
			mcp.WithDescription("Move to the next step when the current step is complete"),
		),
		s.handleAdvance,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("jump-to-step",
			mcp.WithDescription("Jump to any step up to the furthest one reached"),
			mcp.WithNumber("step", mcp.Required(),
				mcp.Description("0 Input, 1 Text, 2 Prompt, 3 Images, 4 Review"),
			),
		),
		s.handleJump,
	)

	// Prompt step
	s.mcpServer.AddTool(
		mcp.NewTool("regenerate-prompts",
			mcp.WithDescription("Replace the three image prompt candidates with a new batch"),
		),
		s.handleRegeneratePrompts,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("select-prompt",
			mcp.WithDescription("Select a prompt candidate; its text becomes the working prompt"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Candidate id")),
		),
		s.handleSelectPrompt,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("set-prompt",
			mcp.WithDescription("Edit the working image prompt"),
			mcp.WithString("prompt", mcp.Required(), mcp.Description("Image prompt")),
		),
		s.handleSetPrompt,
	)

	// Image step
	s.mcpServer.AddTool(
		mcp.NewTool("generate-images",
			mcp.WithDescription("Generate three images for a prompt and move to the image step"),
			mcp.WithString("prompt", mcp.Description("Prompt to use; defaults to the working prompt")),
		),
		s.handleGenerateImages,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("regenerate-image",
			mcp.WithDescription("Regenerate one image of the current batch"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Image id")),
		),
		s.handleRegenerateImage,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("select-image",
			mcp.WithDescription("Select the image used for every post"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Image id")),
		),
		s.handleSelectImage,
	)

	// Review step
	s.mcpServer.AddTool(
		mcp.NewTool("approve-post",
			mcp.WithDescription("Mark a platform's post ready (or back to draft)"),
			mcp.WithString("platform", mcp.Required(), mcp.Description("Platform id")),
			mcp.WithBoolean("ready", mcp.Description("Approval flag (default: true)")),
		),
		s.handleApprove,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("export-csv",
			mcp.WithDescription("Write approved posts to a CSV file"),
		),
		s.handleExportCSV,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("publish",
			mcp.WithDescription("Push approved posts to the publishing service"),
		),
		s.handlePublish,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("reset",
			mcp.WithDescription("Discard everything and start a new set of posts"),
		),
		s.handleReset,
	)
}
