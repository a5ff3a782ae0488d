package interfaces

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/sebuszqo/BudgetTracker/internal/response"
	"github.com/sebuszqo/BudgetTracker/pkg/ctxutil"
)

var (
	respondJSON  response.JSONFunc  = response.JSON
	respondError response.ErrorFunc = response.Error
)

const testUserID = "2f1e1a3c-8a4e-4c7e-9d6b-0a4f5e6d7c8b"

type MockCategoryService struct {
	lastUserID string
	lastQuery  domain.CategoryQuery

	create func(name string) (*domain.Category, error)
	list   func(query domain.CategoryQuery) (*domain.CategoryList, error)
	get    func(id string) (*domain.Category, error)
	update func(id, name string) (*domain.Category, error)
	delete func(id string) error
}

func (m *MockCategoryService) CreateCategory(_ context.Context, userID, name string) (*domain.Category, error) {
	m.lastUserID = userID
	return m.create(name)
}

func (m *MockCategoryService) GetCategories(_ context.Context, userID string, query domain.CategoryQuery) (*domain.CategoryList, error) {
	m.lastUserID = userID
	m.lastQuery = query
	return m.list(query)
}

func (m *MockCategoryService) GetCategory(_ context.Context, userID, id string) (*domain.Category, error) {
	m.lastUserID = userID
	return m.get(id)
}

func (m *MockCategoryService) UpdateCategory(_ context.Context, userID, id, name string) (*domain.Category, error) {
	m.lastUserID = userID
	return m.update(id, name)
}

func (m *MockCategoryService) DeleteCategory(_ context.Context, userID, id string) error {
	m.lastUserID = userID
	return m.delete(id)
}

type MockRecordService struct {
	lastUserID string
	lastQuery  domain.RecordQuery
	lastPatch  domain.RecordPatch

	create func(input domain.NewRecord) (*domain.Record, error)
	list   func(query domain.RecordQuery) (*domain.RecordList, error)
	get    func(id string) (*domain.Record, error)
	update func(id string, patch domain.RecordPatch) (*domain.Record, error)
	delete func(id string) error
}

func (m *MockRecordService) CreateRecord(_ context.Context, userID string, input domain.NewRecord) (*domain.Record, error) {
	m.lastUserID = userID
	return m.create(input)
}

func (m *MockRecordService) GetRecords(_ context.Context, userID string, query domain.RecordQuery) (*domain.RecordList, error) {
	m.lastUserID = userID
	m.lastQuery = query
	return m.list(query)
}

func (m *MockRecordService) GetRecord(_ context.Context, userID, id string) (*domain.Record, error) {
	m.lastUserID = userID
	return m.get(id)
}

func (m *MockRecordService) UpdateRecord(_ context.Context, userID, id string, patch domain.RecordPatch) (*domain.Record, error) {
	m.lastUserID = userID
	m.lastPatch = patch
	return m.update(id, patch)
}

func (m *MockRecordService) DeleteRecord(_ context.Context, userID, id string) error {
	m.lastUserID = userID
	return m.delete(id)
}

// newRequest builds a request carrying a logged-in principal and the given path id.
func newRequest(method, target string, body io.Reader, id string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if id != "" {
		req.SetPathValue("id", id)
	}
	ctx := ctxutil.WithPrincipal(req.Context(), ctxutil.Principal{UserID: testUserID, Username: "alice"})
	return req.WithContext(ctx)
}
