package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/canvasprint/canvasprint/internal/domain"
	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
	"github.com/canvasprint/canvasprint/internal/testutil"
)

func TestExperimentHandler_List(t *testing.T) {
	app, m := setupTestApp(true)
	m.experiments.On("List", mock.Anything).Return([]domain.Experiment{
		*testutil.NewTestExperiment("arial"),
		*testutil.NewTestExperiment("webfont"),
	}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/experiments", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var experiments []domain.Experiment
	decodeJSON(t, resp, &experiments)
	require.Len(t, experiments, 2)
	assert.Equal(t, "arial", experiments[0].Name)
	m.assertExpectations(t)
}

func TestExperimentHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		app, m := setupTestApp(true)
		exp := testutil.NewTestExperiment("arial")
		m.experiments.On("GetByName", mock.Anything, "arial").Return(exp, nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/experiments/arial", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got domain.Experiment
		decodeJSON(t, resp, &got)
		assert.Equal(t, exp.ID, got.ID)
		assert.Equal(t, []string{"/arial.js"}, got.Scripts)
	})

	t.Run("unknown experiment", func(t *testing.T) {
		app, m := setupTestApp(true)
		m.experiments.On("GetByName", mock.Anything, "nope").Return(nil, apperrors.NotFound("experiment"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/experiments/nope", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, apperrors.CodeNotFound, decodeError(t, resp).Error.Code)
	})
}

func TestExperimentHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		admin      bool
		setupMock  func(*testMocks)
		wantStatus int
		wantCode   string
	}{
		{
			name:  "creates experiment",
			body:  `{"name":"webfont","scripts":["/webfont.js"],"mt":true}`,
			admin: true,
			setupMock: func(m *testMocks) {
				m.experiments.On("Create", mock.Anything, &domain.ExperimentInput{
					Name: "webfont", Scripts: []string{"/webfont.js"}, MT: true,
				}).Return(testutil.NewTestExperiment("webfont"), nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "rejects invalid name",
			body:       `{"name":"Web Font"}`,
			admin:      true,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeValidation,
		},
		{
			name:       "rejects malformed body",
			body:       `{"name":`,
			admin:      true,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeBadRequest,
		},
		{
			name:  "duplicate name",
			body:  `{"name":"arial"}`,
			admin: true,
			setupMock: func(m *testMocks) {
				m.experiments.On("Create", mock.Anything, mock.Anything).Return(nil, apperrors.Conflict("experiment already exists"))
			},
			wantStatus: http.StatusConflict,
			wantCode:   apperrors.CodeConflict,
		},
		{
			name:       "requires admin",
			body:       `{"name":"arial"}`,
			admin:      false,
			wantStatus: http.StatusUnauthorized,
			wantCode:   apperrors.CodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, m := setupTestApp(tt.admin)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/experiments", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			}
			m.assertExpectations(t)
		})
	}
}
