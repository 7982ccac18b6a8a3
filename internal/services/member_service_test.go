package services

import (
	"context"
	"testing"

	"financeiro/internal/dto"
	"financeiro/internal/models"
	"financeiro/internal/testutil"
)

func TestMemberInsert(t *testing.T) {
	t.Run("defaults_created_at_to_today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMemberService(NewStores(db))

		m, err := svc.Insert(context.Background(), dto.MemberDTO{Name: "Ana", Role: "Mother"})
		testutil.AssertNoError(t, err)

		if m.ID == 0 {
			t.Fatal("expected non-zero member ID")
		}
		if m.CreatedAt != models.Today() {
			t.Errorf("expected createdAt %s, got %s", models.Today(), m.CreatedAt)
		}
	})

	t.Run("keeps_given_created_at", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMemberService(NewStores(db))

		created := models.NewDate(2020, 5, 17)
		m, err := svc.Insert(context.Background(), dto.MemberDTO{Name: "Bruno", CreatedAt: created})
		testutil.AssertNoError(t, err)

		got, err := svc.FindByID(context.Background(), m.ID)
		testutil.AssertNoError(t, err)
		if got.CreatedAt != created {
			t.Errorf("expected createdAt %s, got %s", created, got.CreatedAt)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMemberService(NewStores(db))

		_, err := svc.Insert(context.Background(), dto.MemberDTO{Role: "Child"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestMemberFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewMemberService(NewStores(db))
	member := testutil.CreateTestMember(t, db)

	t.Run("found", func(t *testing.T) {
		got, err := svc.FindByID(context.Background(), member.ID)
		testutil.AssertNoError(t, err)
		if got.ID != member.ID || got.Name != member.Name || got.Role != member.Role || got.CreatedAt != member.CreatedAt {
			t.Errorf("expected %+v, got %+v", member, got)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := svc.FindByID(context.Background(), 99999)
		testutil.AssertAppError(t, err, "MEMBER_NOT_FOUND")
	})
}

func TestMemberUpdate(t *testing.T) {
	t.Run("preserves_created_at", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMemberService(NewStores(db))
		member := testutil.CreateTestMember(t, db)

		updated, err := svc.Update(context.Background(), member.ID, dto.MemberDTO{
			Name:      "Carla",
			Role:      "Daughter",
			CreatedAt: models.NewDate(1999, 1, 1),
		})
		testutil.AssertNoError(t, err)

		if updated.Name != "Carla" || updated.Role != "Daughter" {
			t.Errorf("unexpected update result %+v", updated)
		}
		if updated.CreatedAt != member.CreatedAt {
			t.Errorf("expected createdAt %s to be preserved, got %s", member.CreatedAt, updated.CreatedAt)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMemberService(NewStores(db))

		_, err := svc.Update(context.Background(), 99999, dto.MemberDTO{Name: "X"})
		testutil.AssertAppError(t, err, "MEMBER_NOT_FOUND")
	})
}

func TestMemberDelete(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMemberService(NewStores(db))
		member := testutil.CreateTestMember(t, db)

		testutil.AssertNoError(t, svc.Delete(context.Background(), member.ID))

		_, err := svc.FindByID(context.Background(), member.ID)
		testutil.AssertAppError(t, err, "MEMBER_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMemberService(NewStores(db))

		err := svc.Delete(context.Background(), 99999)
		testutil.AssertAppError(t, err, "MEMBER_NOT_FOUND")
	})

	t.Run("referenced_by_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMemberService(NewStores(db))
		member := testutil.CreateTestMember(t, db)
		category := testutil.CreateTestCategory(t, db)
		tx := testutil.CreateTestTransaction(t, db, category.ID, models.TransactionTypeIncome, "10.00", models.NewDate(2024, 1, 1))
		db.Model(tx).Update("member_id", member.ID)

		err := svc.Delete(context.Background(), member.ID)
		testutil.AssertAppError(t, err, "DATABASE_ERROR")
	})
}
