package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"financeiro/internal/dto"
	apperrors "financeiro/internal/errors"
	"financeiro/internal/models"
	"financeiro/internal/pagination"
	"financeiro/internal/services"
)

type mockUserService struct {
	findAllFn  func(page pagination.PageRequest) (*pagination.Page[dto.UserDTO], error)
	findByIDFn func(id int64) (*dto.UserDTO, error)
	insertFn   func(in dto.UserInsertDTO) (*dto.UserDTO, error)
	updateFn   func(id int64, in dto.UserUpdateDTO) (*dto.UserDTO, error)
	deleteFn   func(id int64) error
}

func (m *mockUserService) FindAll(_ context.Context, page pagination.PageRequest) (*pagination.Page[dto.UserDTO], error) {
	if m.findAllFn != nil {
		return m.findAllFn(page)
	}
	p := pagination.NewPage[dto.UserDTO](nil, page, 0)
	return &p, nil
}

func (m *mockUserService) FindByID(_ context.Context, id int64) (*dto.UserDTO, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(id)
	}
	return &dto.UserDTO{ID: id}, nil
}

func (m *mockUserService) Insert(_ context.Context, in dto.UserInsertDTO) (*dto.UserDTO, error) {
	if m.insertFn != nil {
		return m.insertFn(in)
	}
	out := in.UserDTO
	out.ID = 5
	return &out, nil
}

func (m *mockUserService) Update(_ context.Context, id int64, in dto.UserUpdateDTO) (*dto.UserDTO, error) {
	if m.updateFn != nil {
		return m.updateFn(id, in)
	}
	out := in.UserDTO
	out.ID = id
	return &out, nil
}

func (m *mockUserService) Delete(_ context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockUserService) FindByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserService) GetByID(_ context.Context, _ int64) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserService) Authenticate(_ context.Context, _, _ string) (*models.User, error) {
	return nil, apperrors.ErrInvalidCredentials
}

func (m *mockUserService) Authorities(_ context.Context, _ int64) ([]string, error) {
	return nil, nil
}

func (m *mockUserService) StoreRefreshTokenHash(_ context.Context, _ int64, _ string) error {
	return nil
}

func (m *mockUserService) EnsureAdmin(_ context.Context, _, _ string) error { return nil }

var _ services.UserServicer = (*mockUserService)(nil)

func setupUserRouter(handler *UserHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/users", handler.FindAll)
	auth.POST("/users", handler.Insert)
	auth.GET("/users/:id", handler.FindByID)
	auth.PUT("/users/:id", handler.Update)
	auth.DELETE("/users/:id", handler.Delete)
	auth.POST("/users/delete/:id", handler.Delete)
	return r
}

func TestUserHandler_FindAll(t *testing.T) {
	t.Run("binds paging parameters", func(t *testing.T) {
		var got pagination.PageRequest
		svc := &mockUserService{
			findAllFn: func(page pagination.PageRequest) (*pagination.Page[dto.UserDTO], error) {
				got = page
				p := pagination.NewPage([]dto.UserDTO{{ID: 1, Email: "a@b.com"}}, pagination.PageRequest{Page: 1, Size: 5}, 6)
				return &p, nil
			},
		}
		r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/users?page=1&size=5&sort=email,desc", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Page != 1 || got.Size != 5 || len(got.Sort) != 1 || got.Sort[0] != "email,desc" {
			t.Errorf("unexpected page request %+v", got)
		}
		result := parseJSON(t, rec)
		if result["totalElements"] != float64(6) || result["totalPages"] != float64(2) {
			t.Errorf("unexpected page metadata %v", result)
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/users?size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestUserHandler_Insert(t *testing.T) {
	t.Run("returns 201 without password in body", func(t *testing.T) {
		var got dto.UserInsertDTO
		svc := &mockUserService{
			insertFn: func(in dto.UserInsertDTO) (*dto.UserDTO, error) {
				got = in
				out := in.UserDTO
				out.ID = 5
				return &out, nil
			},
		}
		audit := &mockAuditService{}
		r := setupUserRouter(NewUserHandler(svc, audit))

		rec := doRequest(r, http.MethodPost, "/users",
			`{"firstName":"Ana","lastName":"Silva","email":"ana@example.com","password":"secret123","roles":[{"id":2}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Password != "secret123" || len(got.RoleIDs()) != 1 || got.RoleIDs()[0] != 2 {
			t.Errorf("unexpected insert payload %+v", got)
		}
		result := parseJSON(t, rec)
		if _, ok := result["password"]; ok {
			t.Error("password must not be returned")
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_USER" || audit.entries[0].userID != 1 {
			t.Errorf("unexpected audit entries %+v", audit.entries)
		}
	})

	t.Run("returns 400 on invalid email", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/users", `{"firstName":"Ana","email":"nope","password":"secret123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		fields := result["error"].(map[string]interface{})["fields"].([]interface{})
		field := fields[0].(map[string]interface{})
		if field["fieldName"] != "email" || field["message"] != "Invalid email" {
			t.Errorf("unexpected field error %v", field)
		}
	})

	t.Run("returns 400 without password", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/users", `{"firstName":"Ana","email":"ana@example.com"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 422 on duplicate email", func(t *testing.T) {
		svc := &mockUserService{
			insertFn: func(_ dto.UserInsertDTO) (*dto.UserDTO, error) { return nil, apperrors.ErrDuplicateEmail },
		}
		r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/users",
			`{"firstName":"Ana","email":"ana@example.com","password":"secret123"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "DUPLICATE_EMAIL")
		fields := result["error"].(map[string]interface{})["fields"].([]interface{})
		if fields[0].(map[string]interface{})["fieldName"] != "email" {
			t.Errorf("expected email field, got %v", fields[0])
		}
	})
}

func TestUserHandler_Update(t *testing.T) {
	t.Run("accepts empty password", func(t *testing.T) {
		var got dto.UserUpdateDTO
		svc := &mockUserService{
			updateFn: func(id int64, in dto.UserUpdateDTO) (*dto.UserDTO, error) {
				got = in
				out := in.UserDTO
				out.ID = id
				return &out, nil
			},
		}
		r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/users/4", `{"firstName":"Ana","email":"ana@example.com","password":""}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Password != "" {
			t.Errorf("expected empty password, got %q", got.Password)
		}
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/users/4", `{"firstName":"Ana","email":"ana@example.com","password":"abc"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockUserService{
			updateFn: func(_ int64, _ dto.UserUpdateDTO) (*dto.UserDTO, error) { return nil, apperrors.ErrUserNotFound },
		}
		r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/users/404", `{"firstName":"Ana","email":"ana@example.com"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
	})
}

func TestUserHandler_Delete(t *testing.T) {
	for _, tc := range []struct {
		name   string
		method string
		path   string
	}{
		{"delete verb", http.MethodDelete, "/users/8"},
		{"post alias", http.MethodPost, "/users/delete/8"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var gotID int64
			svc := &mockUserService{
				deleteFn: func(id int64) error {
					gotID = id
					return nil
				},
			}
			audit := &mockAuditService{}
			r := setupUserRouter(NewUserHandler(svc, audit))

			rec := doRequest(r, tc.method, tc.path, "")

			if rec.Code != http.StatusNoContent {
				t.Fatalf("expected 204, got %d", rec.Code)
			}
			if gotID != 8 {
				t.Errorf("expected id 8, got %d", gotID)
			}
			if len(audit.entries) != 1 || audit.entries[0].action != "DELETE_USER" {
				t.Errorf("unexpected audit entries %+v", audit.entries)
			}
		})
	}
}
