package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"financeiro/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// SeedRoles creates the built-in roles and returns them by authority.
func SeedRoles(t *testing.T, db *gorm.DB) map[string]*models.Role {
	t.Helper()

	roles := make(map[string]*models.Role, 3)
	for _, authority := range []string{models.RoleAdmin, models.RoleUser, models.RoleClient} {
		roles[authority] = CreateTestRole(t, db, authority)
	}
	return roles
}

// CreateTestRole creates a role with the given authority.
func CreateTestRole(t *testing.T, db *gorm.DB, authority string) *models.Role {
	t.Helper()

	role := &models.Role{Authority: authority}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("failed to create test role: %v", err)
	}
	return role
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB, roles ...*models.Role) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email, roles...)
}

// CreateTestUserWithEmail creates a user with the given email and roles.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string, roles ...*models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  string(hash),
	}
	for _, r := range roles {
		user.Roles = append(user.Roles, *r)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestMember creates a household member.
func CreateTestMember(t *testing.T, db *gorm.DB) *models.Member {
	t.Helper()

	member := &models.Member{
		Name:      fmt.Sprintf("Member %d", nextID()),
		Role:      "Parent",
		CreatedAt: models.NewDate(2024, 1, 1),
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{Name: fmt.Sprintf("Category %d", nextID())}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction in the given category.
func CreateTestTransaction(t *testing.T, db *gorm.DB, categoryID int64, transactionType models.TransactionType, amount string, date models.Date) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		Amount:          decimal.RequireFromString(amount),
		Description:     fmt.Sprintf("Transaction %d", nextID()),
		Date:            date,
		TransactionType: transactionType,
		CategoryID:      categoryID,
	}
	if err := db.Omit("FuelData").Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestFuelTransaction creates an expense carrying fuel data.
func CreateTestFuelTransaction(t *testing.T, db *gorm.DB, categoryID int64, amount string, date models.Date, liters, kilometers float64) *models.Transaction {
	t.Helper()

	transaction := CreateTestTransaction(t, db, categoryID, models.TransactionTypeExpense, amount, date)
	fuel := &models.FuelData{
		TransactionID: transaction.ID,
		Liters:        &liters,
		Kilometers:    &kilometers,
	}
	if err := db.Create(fuel).Error; err != nil {
		t.Fatalf("failed to create test fuel data: %v", err)
	}
	transaction.FuelData = fuel
	return transaction
}

// CreateTestPasswordRecover stores a recovery token for email.
func CreateTestPasswordRecover(t *testing.T, db *gorm.DB, email, token string, expiration time.Time) *models.PasswordRecover {
	t.Helper()

	entry := &models.PasswordRecover{Token: token, Email: email, Expiration: expiration}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test password recover: %v", err)
	}
	return entry
}
