package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fedguard/appealbot/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	store := New(db)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func createAppeals(t *testing.T, store *Storage, n int) []int64 {
	t.Helper()

	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, err := store.CreateAppeal(
			context.Background(),
			int64(100+i),
			"user",
			models.AppealTypeUnban,
			time.Now(),
		)
		if err != nil {
			t.Fatalf("create appeal %d: %v", i, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestCreateAppealStartsPending(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	id, err := store.CreateAppeal(ctx, 7, "someuser", models.AppealTypeUnban, time.Now())
	if err != nil {
		t.Fatalf("create appeal: %v", err)
	}

	appeal, err := store.GetAppeal(ctx, id)
	if err != nil {
		t.Fatalf("get appeal: %v", err)
	}
	if appeal.Status != models.AppealStatusPending {
		t.Errorf("new appeal status = %q, want %q", appeal.Status, models.AppealStatusPending)
	}
	if appeal.UserID != 7 {
		t.Errorf("user id = %d, want 7", appeal.UserID)
	}
	if appeal.AppealType != models.AppealTypeUnban {
		t.Errorf("appeal type = %q, want %q", appeal.AppealType, models.AppealTypeUnban)
	}
}

func TestCreateAppealIDsIncrease(t *testing.T) {
	store := newTestStorage(t)

	ids := createAppeals(t, store, 5)
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("id %d (=%d) not greater than previous (=%d)", i, ids[i], ids[i-1])
		}
	}
}

func TestUpdateStatusMissingID(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	createAppeals(t, store, 2)

	affected, err := store.UpdateStatus(ctx, 999, models.AppealStatusApproved)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if affected != 0 {
		t.Errorf("affected = %d, want 0", affected)
	}

	total, err := store.CountByStatus(ctx, models.AppealStatusPending)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 2 {
		t.Errorf("pending count = %d, want 2 (table must be unchanged)", total)
	}
}

func TestUpdateStatusReadAfterWrite(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	ids := createAppeals(t, store, 1)

	affected, err := store.UpdateStatus(ctx, ids[0], models.AppealStatusApproved)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}

	appeal, err := store.GetAppeal(ctx, ids[0])
	if err != nil {
		t.Fatalf("get appeal: %v", err)
	}
	if appeal.Status != models.AppealStatusApproved {
		t.Errorf("status after update = %q, want %q", appeal.Status, models.AppealStatusApproved)
	}
}

func TestListByStatusPagination(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	const total = 12
	const pageSize = 5
	createAppeals(t, store, total)

	for _, tc := range []struct {
		page int
		want int
	}{
		{page: 0, want: 5},
		{page: 1, want: 5},
		{page: 2, want: 2},
		{page: 3, want: 0},
	} {
		appeals, err := store.ListByStatus(ctx, models.AppealStatusPending, pageSize, tc.page*pageSize)
		if err != nil {
			t.Fatalf("list page %d: %v", tc.page, err)
		}
		if len(appeals) != tc.want {
			t.Errorf("page %d returned %d rows, want %d", tc.page, len(appeals), tc.want)
		}
	}
}

func TestListByStatusOrderedByID(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	createAppeals(t, store, 7)

	appeals, err := store.ListByStatus(ctx, models.AppealStatusPending, 7, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(appeals); i++ {
		if appeals[i].ID <= appeals[i-1].ID {
			t.Fatalf("appeals not in ascending id order: %d before %d", appeals[i-1].ID, appeals[i].ID)
		}
	}
}

func TestListByStatusFiltersStatus(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	ids := createAppeals(t, store, 3)
	if _, err := store.UpdateStatus(ctx, ids[1], models.AppealStatusRejected); err != nil {
		t.Fatalf("update status: %v", err)
	}

	pending, err := store.ListByStatus(ctx, models.AppealStatusPending, 10, 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("pending rows = %d, want 2", len(pending))
	}

	rejected, err := store.ListByStatus(ctx, models.AppealStatusRejected, 10, 0)
	if err != nil {
		t.Fatalf("list rejected: %v", err)
	}
	if len(rejected) != 1 || rejected[0].ID != ids[1] {
		t.Errorf("rejected rows = %+v, want exactly appeal %d", rejected, ids[1])
	}
}

func TestGetAppealUserID(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	id, err := store.CreateAppeal(ctx, 42, "admin_hopeful", models.AppealTypeAdmin, time.Now())
	if err != nil {
		t.Fatalf("create appeal: %v", err)
	}

	userID, err := store.GetAppealUserID(ctx, id)
	if err != nil {
		t.Fatalf("get user id: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}

	if _, err := store.GetAppealUserID(ctx, id+1); !errors.Is(err, ErrAppealNotFound) {
		t.Errorf("missing appeal error = %v, want ErrAppealNotFound", err)
	}
}
