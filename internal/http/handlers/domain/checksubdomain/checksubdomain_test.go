package checksubdomain

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aboutwebsite/sitebuilder/internal/services/domain"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CheckSubdomain(ctx context.Context, subdomain, excludeID string) (string, bool, error) {
	args := m.Called(ctx, subdomain, excludeID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCheckSubdomainHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		setupMocks     func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "subdomain available",
			url:  "/api/domains/check-subdomain?subdomain=MyShop",
			setupMocks: func(s *MockService) {
				s.On("CheckSubdomain", mock.Anything, "MyShop", "").
					Return("myshop", true, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"subdomain":"myshop","available":true}}`,
		},
		{
			name: "subdomain taken",
			url:  "/api/domains/check-subdomain?subdomain=myshop",
			setupMocks: func(s *MockService) {
				s.On("CheckSubdomain", mock.Anything, "myshop", "").
					Return("myshop", false, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"subdomain":"myshop","available":false}}`,
		},
		{
			name: "exclude own website",
			url:  "/api/domains/check-subdomain?subdomain=myshop&websiteId=site-1",
			setupMocks: func(s *MockService) {
				s.On("CheckSubdomain", mock.Anything, "myshop", "site-1").
					Return("myshop", true, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"subdomain":"myshop","available":true}}`,
		},
		{
			name: "invalid format",
			url:  "/api/domains/check-subdomain?subdomain=-bad-",
			setupMocks: func(s *MockService) {
				s.On("CheckSubdomain", mock.Anything, "-bad-", "").
					Return("", false, domain.ErrInvalidFormat).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid subdomain format"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			handler := New(newNoopLogger(), service)

			tt.setupMocks(service)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			service.AssertExpectations(t)
		})
	}
}
