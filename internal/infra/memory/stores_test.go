package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"ent-bot/internal/domain"
)

func TestUserStorePointsAndLevel(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	if _, err := store.AddPoints(ctx, 1, 10); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, _ = store.Upsert(ctx, domain.User{ID: 1, Language: "ru", Points: 95})
	u, err := store.AddPoints(ctx, 1, 10)
	if err != nil {
		t.Fatalf("add points: %v", err)
	}
	if u.Points != 105 || u.Level != 2 {
		t.Fatalf("expected 105 points level 2, got %+v", u)
	}
}

func TestUpsertOfExistingUserOnlyRefreshesNames(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	_, _ = store.Upsert(ctx, domain.User{ID: 1, FirstName: "Aida", Language: "ru"})
	stale, _ := store.Get(ctx, 1)

	_, _ = store.AddPoints(ctx, 1, 40)
	_ = store.SetLanguage(ctx, 1, "kz")
	stale.FirstName = "Aidana"
	u, err := store.Upsert(ctx, stale)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if u.FirstName != "Aidana" || u.Points != 40 || u.Language != "kz" {
		t.Fatalf("stale upsert clobbered progress: %+v", u)
	}
}

func TestUserStoreTopAndStats(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	base := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	_, _ = store.Upsert(ctx, domain.User{ID: 1, Language: "ru", Points: 30, RegisteredAt: base})
	_, _ = store.Upsert(ctx, domain.User{ID: 2, Language: "kz", Points: 0, RegisteredAt: base})
	_, _ = store.Upsert(ctx, domain.User{ID: 3, Language: "ru", Points: 30, RegisteredAt: base.Add(time.Hour)})
	_, _ = store.Upsert(ctx, domain.User{ID: 4, Language: "en", Points: 120, RegisteredAt: base})

	top, _ := store.Top(ctx, 3)
	if len(top) != 3 || top[0].ID != 4 || top[1].ID != 1 || top[2].ID != 3 {
		t.Fatalf("unexpected leaderboard order %+v", top)
	}

	st, _ := store.Stats(ctx)
	if st.TotalUsers != 4 || st.ActiveUsers != 3 || st.ByLanguage["ru"] != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestScheduleStoreAddListDelete(t *testing.T) {
	ctx := context.Background()
	store := NewScheduleStore()

	wed, _ := store.Add(ctx, domain.ScheduleEntry{DayOfWeek: 2, TimeStart: "10:00", Subject: "physics"})
	mon, _ := store.Add(ctx, domain.ScheduleEntry{DayOfWeek: 0, TimeStart: "09:00", Subject: "mathematics"})

	list, _ := store.List(ctx)
	if len(list) != 2 || list[0].ID != mon || list[1].ID != wed {
		t.Fatalf("expected monday first, got %+v", list)
	}

	if ok, _ := store.Delete(ctx, wed); !ok {
		t.Fatalf("expected delete to succeed")
	}
	if ok, _ := store.Delete(ctx, wed); ok {
		t.Fatalf("expected second delete to report missing")
	}
}

func TestMaterialStoreFilters(t *testing.T) {
	store := NewMaterialStore(SeedMaterials())
	list, _ := store.BySubject(context.Background(), "physics", "ru")
	if len(list) != 2 {
		t.Fatalf("expected 2 ru physics materials, got %d", len(list))
	}
	list, _ = store.BySubject(context.Background(), "physics", "en")
	if len(list) != 0 {
		t.Fatalf("expected no en materials, got %d", len(list))
	}
}
