//go:build unit

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feedback-relay/internal/service"
)

// MockFeedbackService is a mock implementation of FeedbackService
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) ProcessFeedback(ctx context.Context, payload service.FeedbackPayload) (*service.FeedbackResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FeedbackResult), args.Error(1)
}

func (m *MockFeedbackService) ValidatePayload(payload *service.FeedbackPayload) error {
	args := m.Called(payload)
	return args.Error(0)
}

func newTestHandler(svc service.FeedbackService) *FeedbackHandlerImpl {
	return NewFeedbackHandler(svc, NewResponseWriter())
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) string {
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Status
}

func TestHandleIndex_RouteValidation(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "GET root", method: http.MethodGet, path: "/"},
		{name: "PUT root", method: http.MethodPut, path: "/"},
		{name: "DELETE root", method: http.MethodDelete, path: "/"},
		{name: "POST other path", method: http.MethodPost, path: "/feedback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockFeedbackService)
			h := newTestHandler(mockService)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			h.HandleIndex(rec, req, context.Background())

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "page not found", decodeStatus(t, rec))
			mockService.AssertNotCalled(t, "ProcessFeedback", mock.Anything, mock.Anything)
		})
	}
}

func TestHandleIndex_MalformedJSON(t *testing.T) {
	mockService := new(MockFeedbackService)
	h := newTestHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	h.HandleIndex(rec, req, context.Background())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad request", decodeStatus(t, rec))
}

func TestHandleIndex_InvalidPayload(t *testing.T) {
	mockService := new(MockFeedbackService)
	mockService.On("ValidatePayload", mock.AnythingOfType("*service.FeedbackPayload")).
		Return(errors.New("missing note in payload"))
	h := newTestHandler(mockService)

	body, _ := json.Marshal(service.FeedbackPayload{URL: "http://x"})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	h.HandleIndex(rec, req, context.Background())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad request", decodeStatus(t, rec))
	mockService.AssertNotCalled(t, "ProcessFeedback", mock.Anything, mock.Anything)
}

func TestHandleIndex_FailureMapping(t *testing.T) {
	tests := []struct {
		name           string
		processError   error
		expectedCode   int
		expectedStatus string
	}{
		{
			name:           "unknown repo",
			processError:   service.ErrUnknownRepo,
			expectedCode:   http.StatusBadRequest,
			expectedStatus: "bad request",
		},
		{
			name:           "missing credentials",
			processError:   service.ErrNoCredentials,
			expectedCode:   http.StatusForbidden,
			expectedStatus: "no authorization",
		},
		{
			name:           "wrapped creation failure",
			processError:   errors.Join(service.ErrCreateFailed, errors.New("api said no")),
			expectedCode:   http.StatusInternalServerError,
			expectedStatus: "error while creating issue",
		},
		{
			name:           "unclassified error",
			processError:   errors.New("something else"),
			expectedCode:   http.StatusInternalServerError,
			expectedStatus: "error while creating issue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockFeedbackService)
			mockService.On("ValidatePayload", mock.Anything).Return(nil)
			mockService.On("ProcessFeedback", mock.Anything, mock.Anything).Return(nil, tt.processError)
			h := newTestHandler(mockService)

			body, _ := json.Marshal(service.FeedbackPayload{Note: "bug", URL: "http://x"})
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBuffer(body))
			rec := httptest.NewRecorder()

			h.HandleIndex(rec, req, context.Background())

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, tt.expectedStatus, decodeStatus(t, rec))
		})
	}
}

func TestHandleIndex_Success(t *testing.T) {
	mockService := new(MockFeedbackService)
	mockService.On("ValidatePayload", mock.Anything).Return(nil)
	mockService.On("ProcessFeedback", mock.Anything, mock.MatchedBy(func(p service.FeedbackPayload) bool {
		return p.RepoID == "https://gitlab.example.com/acme/widget" && p.Note == "bug here"
	})).Return(&service.FeedbackResult{ID: "42", URL: "http://issue/42"}, nil)
	h := newTestHandler(mockService)

	body, _ := json.Marshal(service.FeedbackPayload{
		RepoID: "https://gitlab.example.com/acme/widget",
		Note:   "bug here",
		URL:    "http://x",
	})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	h.HandleIndex(rec, req, context.Background())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result service.FeedbackResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "42", result.ID)
	assert.Equal(t, "http://issue/42", result.URL)
	mockService.AssertExpectations(t)
}
