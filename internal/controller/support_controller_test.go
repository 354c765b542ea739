package controller

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"
	"support-chat-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSupportService struct {
	buildErr  error
	streamErr error
	deltas    []string
	lastTurn  []llm.Message
}

func (f *fakeSupportService) BuildTurn(ctx context.Context, history []llm.Message) (*service.TurnContext, error) {
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	f.lastTurn = history
	return &service.TurnContext{Outbound: history}, nil
}

func (f *fakeSupportService) StreamReply(ctx context.Context, turn *service.TurnContext, onDelta func(string) error) error {
	for _, d := range f.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return f.streamErr
}

type fakeHistoryService struct {
	res *dto.SyncHistoryResponse
	err error
}

func (f *fakeHistoryService) RecordTurnSnapshot(ctx context.Context, payload *dto.PublishTurnSnapshotMessage) error {
	return nil
}

func (f *fakeHistoryService) Latest(ctx context.Context) (*dto.SyncHistoryResponse, error) {
	return f.res, f.err
}

func newTestApp(supportSvc service.ISupportService, historySvc service.IHistoryService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewSupportController(supportSvc, historySvc, 5*time.Second).RegisterRoutes(api)
	return app
}

func TestChatRequiresMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty list", body: `{"messages":[]}`},
		{name: "missing field", body: `{}`},
		{name: "malformed json", body: `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeSupportService{}, &fakeHistoryService{})

			req := httptest.NewRequest("POST", "/api/support", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.JSONEq(t, `{"error":"Messages are required"}`, string(body))
		})
	}
}

func TestChatBuildFailure(t *testing.T) {
	app := newTestApp(&fakeSupportService{buildErr: errors.New("boom")}, &fakeHistoryService{})

	req := httptest.NewRequest("POST", "/api/support", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Failed to process your request"}`, string(body))
}

func TestChatStreamsReply(t *testing.T) {
	supportSvc := &fakeSupportService{deltas: []string{"Hel", "lo!"}}
	app := newTestApp(supportSvc, &fakeHistoryService{})

	req := httptest.NewRequest("POST", "/api/support", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Hello!", string(body))

	require.Len(t, supportSvc.lastTurn, 1)
	assert.Equal(t, "hi", supportSvc.lastTurn[0].Content)
}

func TestChatStreamErrorAppendsTerminalLine(t *testing.T) {
	supportSvc := &fakeSupportService{
		deltas:    []string{"partial"},
		streamErr: errors.New("upstream hiccup"),
	}
	app := newTestApp(supportSvc, &fakeHistoryService{})

	req := httptest.NewRequest("POST", "/api/support", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	// The stream is already open, so the failure rides inside the 200 body.
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "partial\n\nError: upstream hiccup", string(body))
}

func TestChatTimeoutMessage(t *testing.T) {
	supportSvc := &fakeSupportService{streamErr: context.DeadlineExceeded}
	app := newTestApp(supportSvc, &fakeHistoryService{})

	req := httptest.NewRequest("POST", "/api/support", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "\n\nError: request timed out", string(body))
}

func TestChatRejectsInvalidMessage(t *testing.T) {
	app := newTestApp(&fakeSupportService{}, &fakeHistoryService{})

	req := httptest.NewRequest("POST", "/api/support", strings.NewReader(`{"messages":[{"role":"user"}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLatestSnapshotNotFound(t *testing.T) {
	app := newTestApp(&fakeSupportService{}, &fakeHistoryService{err: service.ErrNoSnapshots})

	req := httptest.NewRequest("GET", "/api/support/history/latest", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLatestSnapshotSuccess(t *testing.T) {
	app := newTestApp(&fakeSupportService{}, &fakeHistoryService{res: &dto.SyncHistoryResponse{}})

	req := httptest.NewRequest("GET", "/api/support/history/latest", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"success":true`)
}
