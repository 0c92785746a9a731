package remove

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestRemoveHandler(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		mockErr        error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "успешное удаление",
			id:             "d-1",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"id":"d-1"}}`,
		},
		{
			name:           "донор не найден",
			id:             "missing",
			mockErr:        fmt.Errorf("donor.Remove: %w", models.ErrNotFound),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"record not found"`,
		},
		{
			name:           "внутренняя ошибка не раскрывается",
			id:             "d-2",
			mockErr:        errors.New("disk on fire"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"internal error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockService.On("Remove", mock.Anything, tt.id).Return(tt.mockErr).Once()

			req := httptest.NewRequest(http.MethodDelete, "/donors/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(sl.NewDiscardLogger(), mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
