package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/postgenie/internal/export"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/mark3labs/postgenie/internal/wizard"
)

// stateView is the JSON shape returned by wizard-state and most commands.
type stateView struct {
	Step       int                    `json:"step"`
	StepLabel  string                 `json:"step_label"`
	MaxStep    int                    `json:"max_step"`
	CanAdvance bool                   `json:"can_advance"`
	Blocker    string                 `json:"blocker,omitempty"`
	Checklist  []wizard.ChecklistItem `json:"checklist"`
	Issues     map[string][]string    `json:"issues,omitempty"`
	State      wizard.State           `json:"state"`
}

func (s *Server) view() stateView {
	st := s.wizard.State()
	v := stateView{
		Step:       int(st.Step),
		StepLabel:  st.Step.String(),
		MaxStep:    int(st.MaxStep),
		CanAdvance: true,
		Checklist:  s.wizard.Checklist(),
		State:      st,
	}
	if err := s.wizard.AdvanceBlocker(); err != nil {
		v.CanAdvance = false
		v.Blocker = err.Error()
	}
	for _, id := range st.Selected {
		if issues := s.wizard.PostIssues(id); len(issues) > 0 {
			if v.Issues == nil {
				v.Issues = make(map[string][]string)
			}
			v.Issues[string(id)] = issues
		}
	}
	return v
}

// stateResult reports the wizard state after a command, prefixed by msg.
func (s *Server) stateResult(msg string) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(s.view(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal state: %v", err)), nil
	}
	if msg == "" {
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(msg + "\n" + string(data)), nil
}

// stringArg extracts a string argument.
func stringArg(request mcp.CallToolRequest, key string) (string, bool) {
	args := request.GetArguments()
	if args == nil {
		return "", false
	}
	v, ok := args[key].(string)
	return v, ok
}

func requireString(request mcp.CallToolRequest, key string) (string, *mcp.CallToolResult) {
	v, ok := stringArg(request, key)
	if !ok {
		return "", mcp.NewToolResultError(fmt.Sprintf("missing or invalid '%s' parameter", key))
	}
	return v, nil
}

func requirePlatform(request mcp.CallToolRequest) (platform.ID, *mcp.CallToolResult) {
	raw, res := requireString(request, "platform")
	if res != nil {
		return "", res
	}
	id, err := platform.Parse(raw)
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return id, nil
}

// ensurePrompts fills the prompt step with candidates after navigation.
func (s *Server) ensurePrompts(ctx context.Context) error {
	err := s.wizard.EnsurePrompts(ctx)
	if errors.Is(err, wizard.ErrBusy) {
		return nil
	}
	return err
}

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.stateResult("")
}

func (s *Server) handleSetSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, res := requireString(request, "content")
	if res != nil {
		return res, nil
	}
	s.wizard.SetSource(content)
	return s.stateResult("Source content updated")
}

func (s *Server) handleSelectPlatforms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}
	raw, ok := args["platforms"].([]any)
	if !ok {
		return mcp.NewToolResultError("'platforms' is not an array"), nil
	}
	names := make([]string, 0, len(raw))
	for i, v := range raw {
		name, ok := v.(string)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("platform %d is not a string", i)), nil
		}
		names = append(names, name)
	}
	ids, err := platform.ParseList(names)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.wizard.SetSelection(ids)
	return s.stateResult(fmt.Sprintf("Selected %d platform(s)", len(ids)))
}

func (s *Server) handleGeneratePosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.wizard.GeneratePosts(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.stateResult("Post text generated")
}

func (s *Server) handleEditPost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requirePlatform(request)
	if res != nil {
		return res, nil
	}
	field, res := requireString(request, "field")
	if res != nil {
		return res, nil
	}
	value, res := requireString(request, "value")
	if res != nil {
		return res, nil
	}
	if err := s.wizard.SetPostField(id, wizard.Field(field), value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.stateResult(fmt.Sprintf("Updated %s %s", platform.Label(id), field))
}

func (s *Server) handleRegenerateText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requirePlatform(request)
	if res != nil {
		return res, nil
	}
	if err := s.wizard.RegeneratePostText(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.stateResult(fmt.Sprintf("Regenerated %s text", platform.Label(id)))
}

func (s *Server) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if blocker := s.wizard.AdvanceBlocker(); blocker != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot advance: %v", blocker)), nil
	}
	if !s.wizard.Advance() {
		return mcp.NewToolResultError("cannot advance"), nil
	}
	if err := s.ensurePrompts(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.stateResult("Moved to " + s.wizard.State().Step.String())
}

func (s *Server) handleJump(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	n, ok := args["step"].(float64)
	if !ok || n != math.Trunc(n) {
		return mcp.NewToolResultError("missing or invalid 'step' parameter"), nil
	}
	step := wizard.Step(int(n))
	if !s.wizard.JumpTo(step) {
		return mcp.NewToolResultError(fmt.Sprintf("step %d is not reachable (furthest step is %d)", step, s.wizard.State().MaxStep)), nil
	}
	if err := s.ensurePrompts(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.stateResult("Moved to " + step.String())
}

func (s *Server) handleRegeneratePrompts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.wizard.RegeneratePromptBatch(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.stateResult("New prompt candidates generated")
}

func (s *Server) handleSelectPrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireString(request, "id")
	if res != nil {
		return res, nil
	}
	if !s.wizard.SelectPrompt(id) {
		return mcp.NewToolResultError(fmt.Sprintf("prompt candidate %q not found", id)), nil
	}
	return s.stateResult("Prompt selected")
}

func (s *Server) handleSetPrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, res := requireString(request, "prompt")
	if res != nil {
		return res, nil
	}
	s.wizard.SetWorkingPrompt(prompt)
	return s.stateResult("Prompt updated")
}

func (s *Server) handleGenerateImages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, _ := stringArg(request, "prompt")
	if strings.TrimSpace(prompt) == "" {
		prompt = s.wizard.State().WorkingPrompt
	}
	if err := s.wizard.GenerateImageBatch(ctx, prompt); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.stateResult("Images generated")
}

func (s *Server) handleRegenerateImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireString(request, "id")
	if res != nil {
		return res, nil
	}
	if err := s.wizard.RegenerateImage(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.stateResult("Image " + id + " regenerated")
}

func (s *Server) handleSelectImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireString(request, "id")
	if res != nil {
		return res, nil
	}
	if !s.wizard.SelectImage(id) {
		return mcp.NewToolResultError(fmt.Sprintf("image %q is not in the current batch", id)), nil
	}
	return s.stateResult("Image selected")
}

func (s *Server) handleApprove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requirePlatform(request)
	if res != nil {
		return res, nil
	}
	ready := true
	if v, ok := request.GetArguments()["ready"].(bool); ok {
		ready = v
	}
	if !s.wizard.SetApproval(id, ready) {
		return mcp.NewToolResultError(fmt.Sprintf("cannot approve %s: approvals are set on the review step for selected platforms", platform.Label(id))), nil
	}
	status := wizard.StatusDraft
	if ready {
		status = wizard.StatusReady
	}
	return s.stateResult(fmt.Sprintf("%s marked %s", platform.Label(id), status))
}

func (s *Server) handleExportCSV(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.sinks == nil {
		return mcp.NewToolResultError("export is not configured"), nil
	}
	res, err := s.sinks.ExportCSV(ctx, s.wizard.ExportReadyPosts())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	msg := fmt.Sprintf("Exported %d post(s) to %s", res.Count, res.File)
	if res.HookOutput != "" {
		msg += "\n\nPost-export hook output:\n" + res.HookOutput
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handlePublish(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.sinks == nil {
		return mcp.NewToolResultError(export.ErrPublishDisabled.Error()), nil
	}
	res, err := s.sinks.Publish(ctx, s.wizard.ExportReadyPosts())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Sent %d post(s) to the publisher (batch %s)", res.Count, res.Batch)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.wizard.Reset()
	return s.stateResult("Started a new set")
}
