package list

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func (m *MockService) Search(ctx context.Context, f models.DonorFilter) ([]models.Donor, error) {
	args := m.Called(ctx, f)
	donors, _ := args.Get(0).([]models.Donor)
	return donors, args.Error(1)
}

func TestListHandler(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		filter    models.DonorFilter
		donors    []models.Donor
		wantCount int
	}{
		{
			name:      "без фильтров",
			url:       "/donors",
			filter:    models.DonorFilter{},
			donors:    []models.Donor{{ID: "d-1"}, {ID: "d-2"}},
			wantCount: 2,
		},
		{
			name:      "поиск и группа крови",
			url:       "/donors?q=dhaka&blood_type=O%2B",
			filter:    models.DonorFilter{Query: "dhaka", BloodType: "O+"},
			donors:    []models.Donor{{ID: "d-3"}},
			wantCount: 1,
		},
		{
			name:      "пустой результат",
			url:       "/donors?blood_type=all&q=nobody",
			filter:    models.DonorFilter{Query: "nobody", BloodType: "all"},
			donors:    []models.Donor{},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Search", mock.Anything, tt.filter).Return(tt.donors, nil).Once()

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			New(sl.NewDiscardLogger(), svc).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Status string `json:"status"`
				Data   struct {
					Donors []models.Donor `json:"donors"`
					Count  int            `json:"count"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "OK", resp.Status)
			assert.Equal(t, tt.wantCount, resp.Data.Count)
			assert.Len(t, resp.Data.Donors, tt.wantCount)
			svc.AssertExpectations(t)
		})
	}
}
