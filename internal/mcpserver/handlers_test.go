package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/postgenie/internal/export"
	"github.com/mark3labs/postgenie/internal/generate"
	"github.com/mark3labs/postgenie/internal/nats"
	"github.com/mark3labs/postgenie/internal/outbox"
	"github.com/mark3labs/postgenie/internal/wizard"
	"github.com/stretchr/testify/require"
)

// setupTestServer creates a server over a zero-delay mock provider and an
// embedded outbox.
func setupTestServer(t *testing.T) (*Server, *outbox.Store) {
	t.Helper()
	e, err := nats.Start(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	store := outbox.NewStore(e.JS, e.Stream)
	m := generate.NewMock(generate.MockOptions{Seed: 11})
	sinks := &export.Sinks{Dir: t.TempDir(), Brand: "CloverEd", Session: "test", Outbox: store}
	return New(wizard.New(m, m), sinks, "test"), store
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	return result
}

func mustOK(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.False(t, result.IsError, extractText(result))
	return extractText(result)
}

func mustFail(t *testing.T, result *mcp.CallToolResult, contains string) {
	t.Helper()
	require.True(t, result.IsError, extractText(result))
	require.Contains(t, extractText(result), contains)
}

func decodeView(t *testing.T, text string) stateView {
	t.Helper()
	start := strings.Index(text, "{")
	require.GreaterOrEqual(t, start, 0, text)
	var v stateView
	require.NoError(t, json.Unmarshal([]byte(text[start:]), &v))
	return v
}

func TestHandleState_Initial(t *testing.T) {
	srv, _ := setupTestServer(t)

	v := decodeView(t, mustOK(t, call(t, srv.handleState, "wizard-state", nil)))
	require.Equal(t, 0, v.Step)
	require.Equal(t, "Input Content", v.StepLabel)
	require.False(t, v.CanAdvance)
	require.Equal(t, wizard.ErrEmptySource.Error(), v.Blocker)
	require.Len(t, v.Checklist, 2)
}

func TestHandleSelectPlatforms_Validation(t *testing.T) {
	srv, _ := setupTestServer(t)

	mustFail(t, call(t, srv.handleSelectPlatforms, "select-platforms", nil), "no arguments")
	mustFail(t, call(t, srv.handleSelectPlatforms, "select-platforms", map[string]any{"platforms": "x"}), "not an array")
	mustFail(t, call(t, srv.handleSelectPlatforms, "select-platforms", map[string]any{"platforms": []any{"myspace"}}), "unknown platform")
	mustFail(t, call(t, srv.handleSelectPlatforms, "select-platforms", map[string]any{"platforms": []any{3}}), "not a string")

	v := decodeView(t, mustOK(t, call(t, srv.handleSelectPlatforms, "select-platforms", map[string]any{"platforms": []any{"Twitter", "instagram"}})))
	require.Equal(t, []string{"instagram", "x"}, []string{string(v.State.Selected[0]), string(v.State.Selected[1])})
	require.Len(t, v.State.Posts, 2)
}

func TestHandleAdvance_Blocked(t *testing.T) {
	srv, _ := setupTestServer(t)
	mustFail(t, call(t, srv.handleAdvance, "advance", nil), "source content is empty")
	mustFail(t, call(t, srv.handleGeneratePosts, "generate-posts", nil), "source content is empty")
	mustFail(t, call(t, srv.handleJump, "jump-to-step", map[string]any{"step": float64(3)}), "not reachable")
	mustFail(t, call(t, srv.handleJump, "jump-to-step", map[string]any{}), "invalid 'step'")
	mustFail(t, call(t, srv.handleJump, "jump-to-step", map[string]any{"step": 0.5}), "invalid 'step'")
}

func TestFullWizardFlow(t *testing.T) {
	srv, store := setupTestServer(t)
	ctx := context.Background()

	mustOK(t, call(t, srv.handleSetSource, "set-source", map[string]any{"content": "Our new scholarship program opens this fall."}))
	mustOK(t, call(t, srv.handleSelectPlatforms, "select-platforms", map[string]any{"platforms": []any{"instagram", "x"}}))

	v := decodeView(t, mustOK(t, call(t, srv.handleGeneratePosts, "generate-posts", nil)))
	require.Equal(t, int(wizard.StepTextOptions), v.Step)

	mustOK(t, call(t, srv.handleEditPost, "edit-post", map[string]any{"platform": "x", "field": "hashtags", "value": "#scholarship"}))
	mustFail(t, call(t, srv.handleEditPost, "edit-post", map[string]any{"platform": "x", "field": "image", "value": "v"}), "unknown post field")
	mustOK(t, call(t, srv.handleRegenerateText, "regenerate-text", map[string]any{"platform": "instagram"}))

	v = decodeView(t, mustOK(t, call(t, srv.handleAdvance, "advance", nil)))
	require.Equal(t, int(wizard.StepPromptSelect), v.Step)
	require.Len(t, v.State.Prompts, 3, "entering the prompt step fills candidates")

	mustFail(t, call(t, srv.handleGenerateImages, "generate-images", nil), "image prompt is empty")
	v = decodeView(t, mustOK(t, call(t, srv.handleSelectPrompt, "select-prompt", map[string]any{"id": "2"})))
	require.Equal(t, v.State.Prompts[1].Text, v.State.WorkingPrompt)

	v = decodeView(t, mustOK(t, call(t, srv.handleGenerateImages, "generate-images", nil)))
	require.Equal(t, int(wizard.StepImageGenerate), v.Step)
	require.Len(t, v.State.Images, 3)

	mustOK(t, call(t, srv.handleRegenerateImage, "regenerate-image", map[string]any{"id": "img-1"}))
	mustOK(t, call(t, srv.handleRegenerateImage, "regenerate-image", map[string]any{"id": "img-404"}))
	mustFail(t, call(t, srv.handleSelectImage, "select-image", map[string]any{"id": "img-404"}), "not in the current batch")
	mustOK(t, call(t, srv.handleSelectImage, "select-image", map[string]any{"id": "img-2"}))

	v = decodeView(t, mustOK(t, call(t, srv.handleAdvance, "advance", nil)))
	require.Equal(t, int(wizard.StepReview), v.Step)
	require.Len(t, v.State.Cards, 2)

	mustFail(t, call(t, srv.handleExportCSV, "export-csv", nil), export.ErrNothingReady.Error())
	mustFail(t, call(t, srv.handleApprove, "approve-post", map[string]any{"platform": "linkedin"}), "cannot approve")
	mustOK(t, call(t, srv.handleApprove, "approve-post", map[string]any{"platform": "instagram"}))

	text := mustOK(t, call(t, srv.handleExportCSV, "export-csv", nil))
	require.Contains(t, text, "Exported 1 post(s)")
	text = mustOK(t, call(t, srv.handlePublish, "publish", nil))
	require.Contains(t, text, "Sent 1 post(s)")

	st, err := store.Load(ctx, "test")
	require.NoError(t, err)
	require.Len(t, st.Posts, 1)
	require.Equal(t, "instagram", st.Posts[0].Platform)
	require.Len(t, st.Exports, 1)

	v = decodeView(t, mustOK(t, call(t, srv.handleReset, "reset", nil)))
	require.Equal(t, 0, v.Step)
	require.Empty(t, v.State.Posts)
}

func TestHandleJump_RefillsStalePrompts(t *testing.T) {
	srv, _ := setupTestServer(t)

	mustOK(t, call(t, srv.handleSetSource, "set-source", map[string]any{"content": "Spring open house."}))
	mustOK(t, call(t, srv.handleSelectPlatforms, "select-platforms", map[string]any{"platforms": []any{"linkedin"}}))
	mustOK(t, call(t, srv.handleGeneratePosts, "generate-posts", nil))
	mustOK(t, call(t, srv.handleAdvance, "advance", nil))
	mustOK(t, call(t, srv.handleSelectPrompt, "select-prompt", map[string]any{"id": "1"}))

	mustOK(t, call(t, srv.handleJump, "jump-to-step", map[string]any{"step": float64(0)}))
	v := decodeView(t, mustOK(t, call(t, srv.handleSetSource, "set-source", map[string]any{"content": "Autumn open house."})))
	require.Equal(t, 0, v.MaxStep)

	mustOK(t, call(t, srv.handleAdvance, "advance", nil))
	v = decodeView(t, mustOK(t, call(t, srv.handleAdvance, "advance", nil)))
	require.Len(t, v.State.Prompts, 3)
	require.Empty(t, v.State.SelectedPromptID)
	require.Empty(t, v.State.WorkingPrompt)
}

func TestHandlers_NoSinks(t *testing.T) {
	m := generate.NewMock(generate.MockOptions{Seed: 1})
	srv := New(wizard.New(m, m), nil, "")
	mustFail(t, call(t, srv.handleExportCSV, "export-csv", nil), "not configured")
	mustFail(t, call(t, srv.handlePublish, "publish", nil), "disabled")
}

func TestServerStartStop(t *testing.T) {
	srv, _ := setupTestServer(t)

	port, err := srv.Start(context.Background(), "")
	require.NoError(t, err)
	require.Greater(t, port, 0)
	require.Equal(t, fmt.Sprintf("http://localhost:%d/mcp", port), srv.URL())

	_, err = srv.Start(context.Background(), "")
	require.Error(t, err, "second Start should fail")

	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
}
