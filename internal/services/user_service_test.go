package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"financeiro/internal/dto"
	"financeiro/internal/models"
	"financeiro/internal/pagination"
	"financeiro/internal/testutil"
)

// fakeAuthorityCache is an in-memory cache.AuthorityCache.
type fakeAuthorityCache struct {
	mu          sync.Mutex
	entries     map[int64][]string
	invalidated []int64
	// onInvalidate runs after each invalidation, outside the lock.
	onInvalidate func(userID int64)
}

func newFakeAuthorityCache() *fakeAuthorityCache {
	return &fakeAuthorityCache{entries: map[int64][]string{}}
}

func (c *fakeAuthorityCache) Get(_ context.Context, userID int64) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.entries[userID]
	return a, ok
}

func (c *fakeAuthorityCache) Set(_ context.Context, userID int64, authorities []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = authorities
}

func (c *fakeAuthorityCache) Invalidate(_ context.Context, userID int64) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.invalidated = append(c.invalidated, userID)
	hook := c.onInvalidate
	c.mu.Unlock()
	if hook != nil {
		hook(userID)
	}
}

func newTestUserService(db *gorm.DB, cache *fakeAuthorityCache) *userService {
	var svc *userService
	if cache == nil {
		svc = NewUserService(NewStores(db), nil).(*userService)
	} else {
		svc = NewUserService(NewStores(db), cache).(*userService)
	}
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func newUserInsert(email string, roles ...*models.Role) dto.UserInsertDTO {
	in := dto.UserInsertDTO{
		UserDTO:  dto.UserDTO{FirstName: "Alice", LastName: "Smith", Email: email},
		Password: "password123",
	}
	for _, r := range roles {
		in.Roles = append(in.Roles, dto.RoleDTO{ID: r.ID})
	}
	return in
}

func TestUserInsert(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)
		roles := testutil.SeedRoles(t, db)

		user, err := svc.Insert(context.Background(), newUserInsert("Alice@Example.com ", roles[models.RoleUser], roles[models.RoleClient]))
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected normalized email, got %s", user.Email)
		}
		if len(user.Roles) != 2 {
			t.Errorf("expected 2 roles, got %d", len(user.Roles))
		}

		stored, err := svc.GetByID(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if len(stored.Roles) != 2 {
			t.Errorf("expected 2 stored roles, got %d", len(stored.Roles))
		}
	})

	t.Run("password_length_counts_bytes_and_characters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)

		// 40 characters, 80 bytes: within the binding limit, over bcrypt's.
		in := newUserInsert("long@example.com")
		in.Password = strings.Repeat("é", 40)
		if err := binding.Validator.ValidateStruct(in); err != nil {
			t.Fatalf("expected binding to accept the password, got %v", err)
		}
		_, err := svc.Insert(context.Background(), in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		if f := asAppError(t, err).Fields; len(f) != 1 || f[0].FieldName != "password" {
			t.Errorf("expected a password field message, got %+v", f)
		}

		// Six two-byte characters meet the minimum.
		in = newUserInsert("short@example.com")
		in.Password = strings.Repeat("é", 6)
		_, err = svc.Insert(context.Background(), in)
		testutil.AssertNoError(t, err)

		// 72 bytes exactly is accepted.
		in = newUserInsert("edge@example.com")
		in.Password = strings.Repeat("é", 36)
		_, err = svc.Insert(context.Background(), in)
		testutil.AssertNoError(t, err)
		_, err = svc.Authenticate(context.Background(), "edge@example.com", strings.Repeat("é", 36))
		testutil.AssertNoError(t, err)
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)

		_, err := svc.Insert(context.Background(), newUserInsert("dup@example.com"))
		testutil.AssertNoError(t, err)

		_, err = svc.Insert(context.Background(), newUserInsert("DUP@example.com"))
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("duplicate_email_carries_field_message", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)
		testutil.CreateTestUserWithEmail(t, db, "taken@example.com")

		_, err := svc.Insert(context.Background(), newUserInsert("taken@example.com"))
		appErr := asAppError(t, err)
		if len(appErr.Fields) != 1 || appErr.Fields[0].FieldName != "email" || appErr.Fields[0].Message != "Email already exists" {
			t.Errorf("unexpected fields %+v", appErr.Fields)
		}
	})

	t.Run("unknown_role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)

		_, err := svc.Insert(context.Background(), newUserInsert("x@example.com", &models.Role{Base: models.Base{ID: 999}}))
		testutil.AssertAppError(t, err, "ROLE_NOT_FOUND")

		var count int64
		db.Model(&models.User{}).Count(&count)
		if count != 0 {
			t.Errorf("expected insert to roll back, found %d users", count)
		}
	})

	t.Run("empty_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)

		in := newUserInsert("nopass@example.com")
		in.Password = ""
		_, err := svc.Insert(context.Background(), in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("password_is_hashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)

		created, err := svc.Insert(context.Background(), newUserInsert("hash@example.com"))
		testutil.AssertNoError(t, err)

		var stored models.User
		db.First(&stored, created.ID)
		if stored.Password == "password123" {
			t.Fatal("password must not be stored in plain text")
		}
		if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")) != nil {
			t.Error("stored hash does not match password")
		}
	})
}

func TestUserUpdate(t *testing.T) {
	t.Run("same_email_accepted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cache := newFakeAuthorityCache()
		svc := newTestUserService(db, cache)
		roles := testutil.SeedRoles(t, db)
		user := testutil.CreateTestUser(t, db, roles[models.RoleUser])

		in := dto.UserUpdateDTO{UserDTO: dto.UserDTO{
			FirstName: "Renamed",
			Email:     user.Email,
			Roles:     []dto.RoleDTO{{ID: roles[models.RoleAdmin].ID}},
		}}
		updated, err := svc.Update(context.Background(), user.ID, in)
		testutil.AssertNoError(t, err)

		if updated.FirstName != "Renamed" || updated.Email != user.Email {
			t.Errorf("unexpected update result %+v", updated)
		}
		if len(updated.Roles) != 1 || updated.Roles[0].Authority != models.RoleAdmin {
			t.Errorf("expected only ROLE_ADMIN, got %+v", updated.Roles)
		}
		if len(cache.invalidated) != 2 || cache.invalidated[0] != user.ID || cache.invalidated[1] != user.ID {
			t.Errorf("expected two cache invalidations for %d, got %v", user.ID, cache.invalidated)
		}
	})

	t.Run("stale_write_back_is_cleared", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cache := newFakeAuthorityCache()
		svc := newTestUserService(db, cache)
		roles := testutil.SeedRoles(t, db)
		user := testutil.CreateTestUser(t, db, roles[models.RoleUser])

		// A reader that loaded the old roles writes them back right after
		// the first invalidation, while the update is still in flight.
		first := true
		cache.onInvalidate = func(userID int64) {
			if first {
				first = false
				cache.Set(context.Background(), userID, []string{models.RoleUser})
			}
		}

		in := dto.UserUpdateDTO{UserDTO: dto.UserDTO{
			FirstName: "A",
			Email:     user.Email,
			Roles:     []dto.RoleDTO{{ID: roles[models.RoleAdmin].ID}},
		}}
		_, err := svc.Update(context.Background(), user.ID, in)
		testutil.AssertNoError(t, err)

		if cached, ok := cache.Get(context.Background(), user.ID); ok {
			t.Errorf("expected no cached authorities after update, got %v", cached)
		}
		got, err := svc.Authorities(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if len(got) != 1 || got[0] != models.RoleAdmin {
			t.Errorf("expected [ROLE_ADMIN], got %v", got)
		}
	})

	t.Run("password_over_72_bytes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)
		user := testutil.CreateTestUser(t, db)

		in := dto.UserUpdateDTO{UserDTO: dto.UserDTO{FirstName: "A", Email: user.Email}, Password: strings.Repeat("é", 40)}
		_, err := svc.Update(context.Background(), user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_password_keeps_hash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Update(context.Background(), user.ID, dto.UserUpdateDTO{UserDTO: dto.UserDTO{FirstName: "A", Email: user.Email}})
		testutil.AssertNoError(t, err)

		_, err = svc.Authenticate(context.Background(), user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)
	})

	t.Run("new_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)
		user := testutil.CreateTestUser(t, db)

		in := dto.UserUpdateDTO{UserDTO: dto.UserDTO{FirstName: "A", Email: user.Email}, Password: "brand-new"}
		_, err := svc.Update(context.Background(), user.ID, in)
		testutil.AssertNoError(t, err)

		_, err = svc.Authenticate(context.Background(), user.Email, "brand-new")
		testutil.AssertNoError(t, err)
	})

	t.Run("email_collision_is_database_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)
		other := testutil.CreateTestUser(t, db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Update(context.Background(), user.ID, dto.UserUpdateDTO{UserDTO: dto.UserDTO{FirstName: "A", Email: other.Email}})
		testutil.AssertAppError(t, err, "DATABASE_ERROR")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)

		_, err := svc.Update(context.Background(), 99999, dto.UserUpdateDTO{UserDTO: dto.UserDTO{FirstName: "A", Email: "a@b.com"}})
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestUserDelete(t *testing.T) {
	t.Run("removes_role_links", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)
		roles := testutil.SeedRoles(t, db)
		user := testutil.CreateTestUser(t, db, roles[models.RoleAdmin], roles[models.RoleUser])

		testutil.AssertNoError(t, svc.Delete(context.Background(), user.ID))

		var links int64
		db.Table("user_roles").Where("user_id = ?", user.ID).Count(&links)
		if links != 0 {
			t.Errorf("expected no role links, got %d", links)
		}
		_, err := svc.FindByID(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)

		err := svc.Delete(context.Background(), 99999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestUserFindAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestUserService(db, nil)
	for _, email := range []string{"c@example.com", "a@example.com", "b@example.com"} {
		testutil.CreateTestUserWithEmail(t, db, email)
	}

	t.Run("paged", func(t *testing.T) {
		page, err := svc.FindAll(context.Background(), pagination.PageRequest{Page: 0, Size: 2})
		testutil.AssertNoError(t, err)
		if page.TotalElements != 3 || page.TotalPages != 2 || len(page.Content) != 2 {
			t.Errorf("unexpected page metadata %+v", page)
		}
		if !page.First || page.Last {
			t.Errorf("expected first page, got first=%v last=%v", page.First, page.Last)
		}
	})

	t.Run("sorted_by_email", func(t *testing.T) {
		page, err := svc.FindAll(context.Background(), pagination.PageRequest{Sort: []string{"email,asc"}})
		testutil.AssertNoError(t, err)
		if page.Content[0].Email != "a@example.com" || page.Content[2].Email != "c@example.com" {
			t.Errorf("unexpected order %v, %v", page.Content[0].Email, page.Content[2].Email)
		}
	})

	t.Run("unknown_sort", func(t *testing.T) {
		_, err := svc.FindAll(context.Background(), pagination.PageRequest{Sort: []string{"password"}})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUserAuthenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestUserService(db, nil)
	user := testutil.CreateTestUserWithEmail(t, db, "login@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		wantCode string
	}{
		{"valid", "login@example.com", testutil.TestPassword, ""},
		{"case_insensitive_email", "LOGIN@example.com", testutil.TestPassword, ""},
		{"wrong_password", "login@example.com", "nope", "INVALID_CREDENTIALS"},
		{"unknown_email", "ghost@example.com", testutil.TestPassword, "INVALID_CREDENTIALS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authenticate(context.Background(), tt.email, tt.password)
			if tt.wantCode != "" {
				testutil.AssertAppError(t, err, tt.wantCode)
				return
			}
			testutil.AssertNoError(t, err)
			if got.ID != user.ID {
				t.Errorf("expected user %d, got %d", user.ID, got.ID)
			}
		})
	}
}

func TestUserAuthorities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	cache := newFakeAuthorityCache()
	svc := newTestUserService(db, cache)
	roles := testutil.SeedRoles(t, db)
	user := testutil.CreateTestUser(t, db, roles[models.RoleClient])

	got, err := svc.Authorities(context.Background(), user.ID)
	testutil.AssertNoError(t, err)
	if len(got) != 1 || got[0] != models.RoleClient {
		t.Fatalf("expected [ROLE_CLIENT], got %v", got)
	}
	if cached, ok := cache.entries[user.ID]; !ok || cached[0] != models.RoleClient {
		t.Errorf("expected authorities to be cached, got %v", cache.entries)
	}

	cache.entries[user.ID] = []string{"ROLE_FROM_CACHE"}
	got, err = svc.Authorities(context.Background(), user.ID)
	testutil.AssertNoError(t, err)
	if got[0] != "ROLE_FROM_CACHE" {
		t.Errorf("expected cached value to be served, got %v", got)
	}

	_, err = svc.Authorities(context.Background(), 99999)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestStoreRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestUserService(db, nil)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(context.Background(), user.ID, "abc123"))

	got, err := svc.GetByID(context.Background(), user.ID)
	testutil.AssertNoError(t, err)
	if got.RefreshTokenHash != "abc123" {
		t.Errorf("expected hash abc123, got %q", got.RefreshTokenHash)
	}

	err = svc.StoreRefreshTokenHash(context.Background(), 99999, "x")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("creates_once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)
		testutil.SeedRoles(t, db)

		testutil.AssertNoError(t, svc.EnsureAdmin(context.Background(), "admin@example.com", "secret123"))
		testutil.AssertNoError(t, svc.EnsureAdmin(context.Background(), "admin@example.com", "other"))

		admin, err := svc.Authenticate(context.Background(), "admin@example.com", "secret123")
		testutil.AssertNoError(t, err)
		if !admin.HasAuthority(models.RoleAdmin) {
			t.Errorf("expected admin to hold ROLE_ADMIN, got %v", admin.Authorities())
		}

		var count int64
		db.Model(&models.User{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 user, got %d", count)
		}
	})

	t.Run("grants_role_to_existing_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cache := newFakeAuthorityCache()
		svc := newTestUserService(db, cache)
		roles := testutil.SeedRoles(t, db)
		user := testutil.CreateTestUserWithEmail(t, db, "owner@example.com", roles[models.RoleUser])

		testutil.AssertNoError(t, svc.EnsureAdmin(context.Background(), "owner@example.com", "ignored123"))

		got, err := svc.Authenticate(context.Background(), "owner@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if !got.HasAuthority(models.RoleAdmin) || !got.HasAuthority(models.RoleUser) {
			t.Errorf("expected ROLE_ADMIN added to ROLE_USER, got %v", got.Authorities())
		}
		if len(cache.invalidated) != 1 || cache.invalidated[0] != user.ID {
			t.Errorf("expected cache invalidation for %d, got %v", user.ID, cache.invalidated)
		}

		// Already an admin: nothing changes.
		testutil.AssertNoError(t, svc.EnsureAdmin(context.Background(), "owner@example.com", "ignored123"))
		if len(cache.invalidated) != 1 {
			t.Errorf("expected no further invalidation, got %v", cache.invalidated)
		}
	})

	t.Run("missing_admin_role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestUserService(db, nil)

		err := svc.EnsureAdmin(context.Background(), "admin@example.com", "secret123")
		testutil.AssertAppError(t, err, "ROLE_NOT_FOUND")
	})
}
