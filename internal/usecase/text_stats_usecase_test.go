package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/eslsoft/readvoc/internal/entity"
	"github.com/eslsoft/readvoc/internal/repository"
)

type fakeTextRepo struct {
	mu        sync.RWMutex
	texts     map[int64]*entity.TextDocument
	counts    map[int64]*entity.TextWordCounts
	todoWords map[int64]int64
}

func newFakeTextRepo() *fakeTextRepo {
	return &fakeTextRepo{
		texts:     make(map[int64]*entity.TextDocument),
		counts:    make(map[int64]*entity.TextWordCounts),
		todoWords: make(map[int64]int64),
	}
}

func (r *fakeTextRepo) addText(text *entity.TextDocument) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts[text.ID] = text
}

func (r *fakeTextRepo) GetByID(ctx context.Context, id int64) (*entity.TextDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	text, ok := r.texts[id]
	if !ok {
		return nil, entity.ErrTextNotFound
	}
	copy := *text
	return &copy, nil
}

func (r *fakeTextRepo) List(ctx context.Context, query *repository.ListTextQuery) ([]*entity.TextDocument, int64, error) {
	items, err := r.ListByLanguage(ctx, query.LangID)
	if err != nil {
		return nil, 0, err
	}
	return items, int64(len(items)), nil
}

func (r *fakeTextRepo) ListByLanguage(ctx context.Context, langID int64) ([]*entity.TextDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*entity.TextDocument
	for _, text := range r.texts {
		if text.LangID != langID || text.Archived {
			continue
		}
		copy := *text
		items = append(items, &copy)
	}
	return items, nil
}

func (r *fakeTextRepo) WordCounts(ctx context.Context, textID int64) (*entity.TextWordCounts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts, ok := r.counts[textID]
	if !ok {
		return &entity.TextWordCounts{
			Stat:  map[entity.Status]int64{},
			StatU: map[entity.Status]int64{},
		}, nil
	}
	copy := entity.TextWordCounts{
		Total:  counts.Total,
		Expr:   counts.Expr,
		Stat:   map[entity.Status]int64{},
		TotalU: counts.TotalU,
		ExprU:  counts.ExprU,
		StatU:  map[entity.Status]int64{},
	}
	for s, n := range counts.Stat {
		copy.Stat[s] = n
	}
	for s, n := range counts.StatU {
		copy.StatU[s] = n
	}
	return &copy, nil
}

func (r *fakeTextRepo) TodoWordsCount(ctx context.Context, textID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.todoWords[textID], nil
}

type fakeLanguageRepo struct {
	langs map[int64]*entity.Language
}

func newFakeLanguageRepo(langs ...*entity.Language) *fakeLanguageRepo {
	repo := &fakeLanguageRepo{langs: make(map[int64]*entity.Language)}
	for _, lang := range langs {
		repo.langs[lang.ID] = lang
	}
	return repo
}

func (r *fakeLanguageRepo) GetByID(ctx context.Context, id int64) (*entity.Language, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lang, ok := r.langs[id]
	if !ok {
		return nil, entity.ErrLanguageNotFound
	}
	copy := *lang
	return &copy, nil
}

func (r *fakeLanguageRepo) List(ctx context.Context) ([]*entity.Language, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var items []*entity.Language
	for _, lang := range r.langs {
		copy := *lang
		items = append(items, &copy)
	}
	return items, nil
}

func TestTextStatsMergesWordAndExpressionCounts(t *testing.T) {
	repo := newFakeTextRepo()
	repo.addText(&entity.TextDocument{ID: 7, LangID: 1, Title: "Der Prozess"})
	repo.counts[7] = &entity.TextWordCounts{
		StatU: map[entity.Status]int64{
			entity.StatusLearning1: 10,
			entity.StatusLearning2: 8,
			entity.StatusLearning3: 6,
			entity.StatusLearning4: 4,
			entity.StatusLearning5: 2,
			entity.StatusIgnored:   15,
			entity.StatusWellKnown: 30,
		},
	}
	repo.todoWords[7] = 5

	uc := NewTextStatsUsecase(repo, newFakeLanguageRepo())
	stats, err := uc.TextStats(context.Background(), 7)
	if err != nil {
		t.Fatalf("TextStats returned error: %v", err)
	}

	want := entity.TextStatistics{Unknown: 5, S1: 10, S2: 8, S3: 6, S4: 4, S5: 2, S98: 15, S99: 30, Total: 80}
	if stats != want {
		t.Fatalf("stats mismatch:\n got %+v\nwant %+v", stats, want)
	}
}

func TestTextStatsMissingBucketsDefaultToZero(t *testing.T) {
	repo := newFakeTextRepo()
	repo.addText(&entity.TextDocument{ID: 3, LangID: 1, Title: "Short"})
	repo.counts[3] = &entity.TextWordCounts{
		Stat:  map[entity.Status]int64{entity.StatusLearning2: 4},
		StatU: map[entity.Status]int64{entity.StatusLearning2: 1},
	}

	uc := NewTextStatsUsecase(repo, newFakeLanguageRepo())
	stats, err := uc.TextStats(context.Background(), 3)
	if err != nil {
		t.Fatalf("TextStats returned error: %v", err)
	}
	if stats.S2 != 5 {
		t.Errorf("expected merged s2 count 5, got %d", stats.S2)
	}
	for _, status := range []entity.Status{entity.StatusLearning1, entity.StatusLearning3, entity.StatusLearning4, entity.StatusLearning5, entity.StatusIgnored, entity.StatusWellKnown} {
		if got := stats.Bucket(status); got != 0 {
			t.Errorf("expected bucket %d to default to 0, got %d", status, got)
		}
	}
	if stats.Total != 5 {
		t.Errorf("expected total 5, got %d", stats.Total)
	}
}

func TestTextStatsEmptyTextYieldsZeroRecord(t *testing.T) {
	repo := newFakeTextRepo()
	repo.addText(&entity.TextDocument{ID: 9, LangID: 1, Title: "Empty"})

	uc := NewTextStatsUsecase(repo, newFakeLanguageRepo())
	stats, err := uc.TextStats(context.Background(), 9)
	if err != nil {
		t.Fatalf("expected no error for a text without statistics, got %v", err)
	}
	if stats != (entity.TextStatistics{}) {
		t.Fatalf("expected all-zero record, got %+v", stats)
	}
}

func TestTextStatsRejectsInvalidID(t *testing.T) {
	uc := NewTextStatsUsecase(newFakeTextRepo(), newFakeLanguageRepo())
	if _, err := uc.TextStats(context.Background(), 0); err != entity.ErrInvalidTextID {
		t.Fatalf("expected ErrInvalidTextID, got %v", err)
	}
}

func TestSnapshotCarriesTextAndLanguageMetadata(t *testing.T) {
	repo := newFakeTextRepo()
	repo.addText(&entity.TextDocument{ID: 12, LangID: 2, Title: "La Peste", Annotated: true})
	repo.counts[12] = &entity.TextWordCounts{
		Stat: map[entity.Status]int64{entity.StatusWellKnown: 40},
	}
	repo.todoWords[12] = 2
	langs := newFakeLanguageRepo(&entity.Language{ID: 2, Name: "French", Code: "fr"})

	uc := NewTextStatsUsecase(repo, langs)
	snap, err := uc.Snapshot(context.Background(), 12)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if snap.ID != 12 || snap.Title != "La Peste" {
		t.Errorf("unexpected text metadata: %+v", snap)
	}
	if snap.LanguageID != 2 || snap.LanguageName != "French" {
		t.Errorf("unexpected language metadata: %+v", snap)
	}
	if !snap.Annotated {
		t.Error("expected annotated flag to carry through")
	}
	if snap.Stats.S99 != 40 || snap.Stats.Unknown != 2 || snap.Stats.Total != 42 {
		t.Errorf("unexpected stats: %+v", snap.Stats)
	}
}

func TestSnapshotUnknownTextFails(t *testing.T) {
	uc := NewTextStatsUsecase(newFakeTextRepo(), newFakeLanguageRepo())
	if _, err := uc.Snapshot(context.Background(), 404); err != entity.ErrTextNotFound {
		t.Fatalf("expected ErrTextNotFound, got %v", err)
	}
}
