package notes

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notevault/internal/common"
	"notevault/internal/kvstore"
	"notevault/internal/logging"
	"notevault/internal/models"
)

const owner = "ann@example.com"

func newService(t *testing.T) (*Service, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	return NewService(store, logging.NewTextLogger(io.Discard, "error")), store
}

// stubClock makes each timestamp one minute later than the previous one so
// creation order is observable through created_at.
func stubClock(t *testing.T) {
	t.Helper()
	orig := now
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	t.Cleanup(func() { now = orig })
}

func TestCreate_SetsFieldsAndAppends(t *testing.T) {
	svc, _ := newService(t)
	stubClock(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, owner, "shopping", "milk and eggs", models.CategoryPersonal)
	require.NoError(t, err)

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, owner, n.UserID)
	assert.Equal(t, "shopping", n.TitleText())
	assert.Equal(t, models.CategoryPersonal, n.Category)
	assert.False(t, n.CreatedAt.IsZero())
	assert.Nil(t, n.EditedAt, "edited_at must stay unset until the first update")

	list, err := svc.List(ctx, owner, OrderNewestFirst)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		title    string
		content  string
		category models.Category
	}{
		{"empty content", "t", "", models.CategoryWork},
		{"content too long", "t", strings.Repeat("x", MaxContentLen+1), models.CategoryWork},
		{"title too long", strings.Repeat("x", MaxTitleLen+1), "body", models.CategoryWork},
		{"multibyte content too long", "t", strings.Repeat("你", MaxContentLen+1), models.CategoryWork},
		{"multibyte title too long", strings.Repeat("你", MaxTitleLen+1), "body", models.CategoryWork},
		{"unknown category", "t", "body", models.Category("groceries")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, owner, tt.title, tt.content, tt.category)
			assert.True(t, common.IsValidation(err), "want ValidationError, got %v", err)
		})
	}

	// limits are inclusive
	_, err := svc.Create(ctx, owner, strings.Repeat("t", MaxTitleLen), strings.Repeat("c", MaxContentLen), models.CategoryOther)
	assert.NoError(t, err)

	// limits count characters, not bytes: 4000 CJK characters are 12000
	// bytes but still well under the content limit
	_, err = svc.Create(ctx, owner, strings.Repeat("你", MaxTitleLen), strings.Repeat("你", 4000), models.CategoryOther)
	assert.NoError(t, err)
}

func TestList_SortsByCreatedAt(t *testing.T) {
	svc, _ := newService(t)
	stubClock(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, owner, "", "first", models.CategoryWork)
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner, "", "second", models.CategoryWork)
	require.NoError(t, err)
	third, err := svc.Create(ctx, owner, "", "third", models.CategoryWork)
	require.NoError(t, err)

	newest, err := svc.List(ctx, owner, OrderNewestFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, ids(newest))

	oldest, err := svc.List(ctx, owner, OrderOldestFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, ids(oldest))
}

func TestFilter_CategoryAndSearchIntersect(t *testing.T) {
	svc, _ := newService(t)
	stubClock(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner, "Q3 Budget", "numbers", models.CategoryWork)
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, "standup", "discuss the budget line", models.CategoryWork)
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, "household budget", "rent", models.CategoryFinance)
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, "gym", "leg day", models.CategoryHealth)
	require.NoError(t, err)

	got, err := svc.Filter(ctx, owner, models.CategoryWork, "budget", OrderNewestFirst)
	require.NoError(t, err)
	require.Len(t, got, 2, "category AND search must both hold")
	for _, n := range got {
		assert.Equal(t, models.CategoryWork, n.Category)
	}

	t.Run("search is case-insensitive over title and content", func(t *testing.T) {
		got, err := svc.Filter(ctx, owner, "", "BUDGET", OrderNewestFirst)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("empty filters return everything", func(t *testing.T) {
		got, err := svc.Filter(ctx, owner, "", "", OrderNewestFirst)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})
}

func TestUpdate_StampsEditedAt(t *testing.T) {
	svc, _ := newService(t)
	stubClock(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, owner, "draft", "v1", models.CategoryStudy)
	require.NoError(t, err)

	content := "v2"
	updated, err := svc.Update(ctx, owner, n.ID, Patch{Content: &content})
	require.NoError(t, err)

	assert.Equal(t, "v2", updated.Content)
	assert.Equal(t, "draft", updated.TitleText(), "unpatched fields stay put")
	require.NotNil(t, updated.EditedAt)
	assert.False(t, updated.EditedAt.Before(updated.CreatedAt))

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, owner, "no-such-id", Patch{Content: &content})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("invalid patch leaves note untouched", func(t *testing.T) {
		empty := ""
		_, err := svc.Update(ctx, owner, n.ID, Patch{Content: &empty})
		assert.True(t, common.IsValidation(err))

		got, err := svc.Get(ctx, owner, n.ID)
		require.NoError(t, err)
		assert.Equal(t, "v2", got.Content)
	})
}

func TestDelete_RemovesAndIsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, owner, "", "doomed", models.CategoryOther)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, n.ID))

	list, err := svc.List(ctx, owner, OrderNewestFirst)
	require.NoError(t, err)
	assert.Empty(t, ids(list))

	// deleting the same id again is a silent no-op
	require.NoError(t, svc.Delete(ctx, owner, n.ID))
}

func TestCollections_AreIsolatedPerUser(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "a@example.com", "", "mine", models.CategoryWork)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "b@example.com", "", "yours", models.CategoryWork)
	require.NoError(t, err)

	mine, err := svc.List(ctx, "a@example.com", OrderNewestFirst)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Content)

	// distinct keys per owner
	raw, err := store.Get(ctx, Key("a@example.com"))
	require.NoError(t, err)
	require.NotNil(t, raw)
}

func TestLoadAll_MalformedCollectionDegradesToEmpty(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, Key(owner), []byte(`[{"id":`)))

	list, err := svc.List(ctx, owner, OrderNewestFirst)
	require.NoError(t, err)
	assert.Empty(t, list)

	// a following create replaces the corrupt blob
	_, err = svc.Create(ctx, owner, "", "fresh start", models.CategoryOther)
	require.NoError(t, err)

	list, err = svc.List(ctx, owner, OrderNewestFirst)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func ids(list []models.Note) []string {
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.ID)
	}
	return out
}
