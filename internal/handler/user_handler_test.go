package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AlonaKolesneva/user-service-api/internal/auth"
	apperrors "github.com/AlonaKolesneva/user-service-api/internal/errors"
	"github.com/AlonaKolesneva/user-service-api/internal/model"
	"github.com/AlonaKolesneva/user-service-api/internal/service"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Register(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockUserService) List(ctx context.Context, page, limit int) (*service.UserPage, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserPage), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uint) (*model.PublicUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PublicUser), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id, requesterID uint, email, password string) (*model.User, error) {
	args := m.Called(ctx, id, requesterID, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id, requesterID uint) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr.StatusCode
}

func TestUserHandler_Register(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("Register", mock.Anything, "new@example.com", "password123").
		Return("signed-token", &model.User{ID: 1, Email: "new@example.com"}, nil)

	h := NewUserHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/users/register",
		`{"email":"new@example.com","password":"password123"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, uint(1), resp.User.ID)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestUserHandler_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid email", body: `{"email":"invalid-email","password":"password123"}`},
		{name: "short password", body: `{"email":"a@example.com","password":"short"}`},
		{name: "missing fields", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockUserService)
			h := NewUserHandler(mockSvc)
			c, _ := newTestContext(t, http.MethodPost, "/api/v1/users/register", tt.body)

			err := h.Register(c)
			assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
			mockSvc.AssertNotCalled(t, "Register")
		})
	}
}

func TestUserHandler_Register_DuplicateEmail(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("Register", mock.Anything, "taken@example.com", "password123").
		Return("", nil, apperrors.ErrDuplicateEmail)

	h := NewUserHandler(mockSvc)
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/users/register",
		`{"email":"taken@example.com","password":"password123"}`)

	err := h.Register(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Email already registered", httpErr.Message)
}

func TestUserHandler_Login_InvalidCredentials(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return("", nil, apperrors.ErrInvalidCredentials)

	h := NewUserHandler(mockSvc)

	// Wrong password and unknown email travel the same service error, so the
	// handler output is identical for both.
	for _, body := range []string{
		`{"email":"known@example.com","password":"wrong"}`,
		`{"email":"unknown@example.com","password":"whatever"}`,
	} {
		c, _ := newTestContext(t, http.MethodPost, "/api/v1/users/login", body)
		err := h.Login(c)
		assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
		var httpErr *apperrors.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "Invalid credentials", httpErr.Message)
	}
}

func TestUserHandler_Login_Success(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("Login", mock.Anything, "test@example.com", "password123").
		Return("signed-token", &model.User{ID: 3, Email: "test@example.com"}, nil)

	h := NewUserHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/users/login",
		`{"email":"test@example.com","password":"password123"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, "signed-token", resp.Token)
}

func TestUserHandler_List(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("List", mock.Anything, 2, 5).Return(&service.UserPage{
		Users:       []model.PublicUser{{ID: 6, Email: "u@example.com"}},
		Total:       15,
		CurrentPage: 2,
		TotalPages:  3,
	}, nil)

	h := NewUserHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodGet, "/api/v1/users?page=2&limit=5", "")

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp service.UserPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(15), resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
}

func TestUserHandler_List_PaginationBounds(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "zero page", target: "/api/v1/users?page=0"},
		{name: "negative page", target: "/api/v1/users?page=-1"},
		{name: "zero limit", target: "/api/v1/users?limit=0"},
		{name: "limit above cap", target: "/api/v1/users?limit=101"},
		{name: "non-numeric page", target: "/api/v1/users?page=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockUserService)
			h := NewUserHandler(mockSvc)
			c, _ := newTestContext(t, http.MethodGet, tt.target, "")

			err := h.List(c)
			assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
			mockSvc.AssertNotCalled(t, "List")
		})
	}
}

func TestUserHandler_GetByID(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("GetByID", mock.Anything, uint(1)).Return(&model.PublicUser{ID: 1, Email: "test@example.com"}, nil)
	mockSvc.On("GetByID", mock.Anything, uint(99999)).Return(nil, apperrors.ErrUserNotFound)

	h := NewUserHandler(mockSvc)

	c, rec := newTestContext(t, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = newTestContext(t, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("99999")
	assert.Equal(t, http.StatusNotFound, httpStatus(t, h.GetByID(c)))

	c, _ = newTestContext(t, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.GetByID(c)))
}

func TestUserHandler_Update(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("Update", mock.Anything, uint(1), uint(1), "updated@example.com", "").
		Return(&model.User{ID: 1, Email: "updated@example.com"}, nil)

	h := NewUserHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodPut, "/", `{"email":"updated@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set(auth.ContextUserKey, &model.User{ID: 1})

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp UpdateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User updated successfully", resp.Message)
	assert.Equal(t, "updated@example.com", resp.User.Email)
}

func TestUserHandler_Update_Forbidden(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("Update", mock.Anything, uint(2), uint(1), "x@example.com", "").
		Return(nil, apperrors.ErrForbidden)

	h := NewUserHandler(mockSvc)
	c, _ := newTestContext(t, http.MethodPut, "/", `{"email":"x@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("2")
	c.Set(auth.ContextUserKey, &model.User{ID: 1})

	assert.Equal(t, http.StatusForbidden, httpStatus(t, h.Update(c)))
}

func TestUserHandler_Delete(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("Delete", mock.Anything, uint(1), uint(1)).Return(nil)
	mockSvc.On("Delete", mock.Anything, uint(2), uint(1)).Return(apperrors.ErrForbidden)

	h := NewUserHandler(mockSvc)

	c, rec := newTestContext(t, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set(auth.ContextUserKey, &model.User{ID: 1})
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User deleted successfully")

	c, _ = newTestContext(t, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("2")
	c.Set(auth.ContextUserKey, &model.User{ID: 1})
	assert.Equal(t, http.StatusForbidden, httpStatus(t, h.Delete(c)))
}
