package accountcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Add(ctx context.Context, in models.AccountInput) (models.Account, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Account), args.Error(1)
}

func TestAccountCreateHandler(t *testing.T) {
	in := models.AccountInput{Name: "Op", Email: "op@example.com", Role: "user", Status: "active"}
	body, err := json.Marshal(in)
	require.NoError(t, err)

	verr := &models.ValidationError{}
	verr.Add("email", "must be a valid email")

	tests := []struct {
		name           string
		body           []byte
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "учётная запись создана",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Add", mock.Anything, in).Return(models.Account{ID: "acc-2", Email: "op@example.com"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"acc-2"`,
		},
		{
			name:           "некорректный json",
			body:           []byte("{"),
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name: "email занят",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Add", mock.Anything, in).Return(models.Account{}, models.ErrDuplicateEmail).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"email already registered"`,
		},
		{
			name: "ошибка валидации с полями",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Add", mock.Anything, in).Return(models.Account{}, verr).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"field":"email"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(tt.body))
			New(sl.NewDiscardLogger(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
