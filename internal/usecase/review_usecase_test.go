package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/eslsoft/readvoc/internal/entity"
	"github.com/eslsoft/readvoc/internal/repository"
)

type fakeTermRepo struct {
	mu        sync.RWMutex
	seq       int64
	items     map[int64]*entity.Term
	textTerms map[int64][]int64
}

func newFakeTermRepo() *fakeTermRepo {
	return &fakeTermRepo{
		items:     make(map[int64]*entity.Term),
		textTerms: make(map[int64][]int64),
	}
}

func (r *fakeTermRepo) add(term *entity.Term) *entity.Term {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := cloneTerm(term)
	copy.ID = r.seq
	r.items[copy.ID] = copy
	return cloneTerm(copy)
}

func (r *fakeTermRepo) GetByID(ctx context.Context, id int64) (*entity.Term, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	term, ok := r.items[id]
	if !ok {
		return nil, entity.ErrTermNotFound
	}
	return cloneTerm(term), nil
}

func (r *fakeTermRepo) FindByText(ctx context.Context, langID int64, textLC string) (*entity.Term, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, term := range r.items {
		if term.LangID == langID && term.TextLC == textLC {
			return cloneTerm(term), nil
		}
	}
	return nil, nil
}

func (r *fakeTermRepo) SetStatus(ctx context.Context, id int64, status entity.Status, now time.Time) (entity.Status, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	term, ok := r.items[id]
	if !ok {
		return 0, entity.ErrTermNotFound
	}
	term.Status = status
	term.StatusChanged = now
	term.UpdatedAt = now
	return term.Status, nil
}

func (r *fakeTermRepo) ShiftStatus(ctx context.Context, id int64, delta int32, now time.Time) (entity.Status, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	term, ok := r.items[id]
	if !ok {
		return 0, entity.ErrTermNotFound
	}
	next := term.Status.ApplyChange(delta)
	if next != term.Status {
		term.Status = next
		term.StatusChanged = now
		term.UpdatedAt = now
	}
	return term.Status, nil
}

func (r *fakeTermRepo) MarkAsked(ctx context.Context, id int64, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	term, ok := r.items[id]
	if !ok {
		return entity.ErrTermNotFound
	}
	asked := now
	term.LastAsked = &asked
	return nil
}

func (r *fakeTermRepo) ListReviewPool(ctx context.Context, query *repository.ReviewPoolQuery) ([]*entity.Term, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	excluded := make(map[int64]struct{}, len(query.ExcludeIDs))
	for _, id := range query.ExcludeIDs {
		excluded[id] = struct{}{}
	}
	var pool []*entity.Term
	for _, term := range r.items {
		if term.LangID != query.LangID {
			continue
		}
		if term.Status < query.MinStatus || term.Status > query.MaxStatus {
			continue
		}
		if _, ok := excluded[term.ID]; ok {
			continue
		}
		switch query.WordMode {
		case entity.WordModeSingle:
			if term.MultiWord() {
				continue
			}
		case entity.WordModeMulti:
			if !term.MultiWord() {
				continue
			}
		}
		pool = append(pool, cloneTerm(term))
	}
	return pool, nil
}

func (r *fakeTermRepo) BulkSetStatusForText(ctx context.Context, textID int64, status entity.Status, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, id := range r.textTerms[textID] {
		if term, ok := r.items[id]; ok {
			term.Status = status
			term.StatusChanged = now
			term.UpdatedAt = now
			affected++
		}
	}
	return affected, nil
}

func cloneTerm(src *entity.Term) *entity.Term {
	if src == nil {
		return nil
	}
	copy := *src
	if src.LastAsked != nil {
		asked := *src.LastAsked
		copy.LastAsked = &asked
	}
	return &copy
}

func newTestReviewUsecase(t *testing.T, repo *fakeTermRepo, strategy Strategy) (*reviewUsecase, *time.Time) {
	t.Helper()
	uc := NewReviewUsecase(repo, strategy).(*reviewUsecase)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := &now
	uc.clock = func() time.Time { return *clock }
	return uc, clock
}

func statusPtr(s entity.Status) *entity.Status { return &s }

func changePtr(c int32) *int32 { return &c }

func TestUpdateStatusRelativeChange(t *testing.T) {
	repo := newFakeTermRepo()
	term := repo.add(&entity.Term{LangID: 1, Text: "haus", TextLC: "haus", WordCount: 1, Status: entity.StatusLearning3})
	uc, _ := newTestReviewUsecase(t, repo, nil)

	got, err := uc.UpdateStatus(context.Background(), UpdateStatusRequest{TermID: term.ID, Change: changePtr(1)})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if got != entity.StatusLearning4 {
		t.Errorf("expected status 4 after +1 from 3, got %d", got)
	}

	got, err = uc.UpdateStatus(context.Background(), UpdateStatusRequest{TermID: term.ID, Change: changePtr(-2)})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if got != entity.StatusLearning2 {
		t.Errorf("expected status 2 after -2 from 4, got %d", got)
	}
}

func TestUpdateStatusRelativeChangeClampsToLearningRange(t *testing.T) {
	repo := newFakeTermRepo()
	term := repo.add(&entity.Term{LangID: 1, Text: "baum", TextLC: "baum", WordCount: 1, Status: entity.StatusLearning5})
	uc, _ := newTestReviewUsecase(t, repo, nil)

	got, err := uc.UpdateStatus(context.Background(), UpdateStatusRequest{TermID: term.ID, Change: changePtr(3)})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if got != entity.StatusLearning5 {
		t.Errorf("expected clamp at 5, got %d", got)
	}
}

func TestUpdateStatusFixedStatesIgnoreRelativeChange(t *testing.T) {
	repo := newFakeTermRepo()
	ignored := repo.add(&entity.Term{LangID: 1, Text: "der", TextLC: "der", WordCount: 1, Status: entity.StatusIgnored})
	known := repo.add(&entity.Term{LangID: 1, Text: "und", TextLC: "und", WordCount: 1, Status: entity.StatusWellKnown})
	uc, _ := newTestReviewUsecase(t, repo, nil)

	for _, term := range []*entity.Term{ignored, known} {
		got, err := uc.UpdateStatus(context.Background(), UpdateStatusRequest{TermID: term.ID, Change: changePtr(1)})
		if err != nil {
			t.Fatalf("UpdateStatus returned error: %v", err)
		}
		if got != term.Status {
			t.Errorf("expected fixed status %d to survive relative change, got %d", term.Status, got)
		}
	}

	// An explicit absolute set still moves a fixed term.
	got, err := uc.UpdateStatus(context.Background(), UpdateStatusRequest{TermID: known.ID, Status: statusPtr(entity.StatusLearning2)})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if got != entity.StatusLearning2 {
		t.Errorf("expected absolute set to 2, got %d", got)
	}
}

func TestUpdateStatusAbsoluteWinsOverChange(t *testing.T) {
	repo := newFakeTermRepo()
	term := repo.add(&entity.Term{LangID: 1, Text: "gehen", TextLC: "gehen", WordCount: 1, Status: entity.StatusLearning1})
	uc, _ := newTestReviewUsecase(t, repo, nil)

	got, err := uc.UpdateStatus(context.Background(), UpdateStatusRequest{
		TermID: term.ID,
		Status: statusPtr(entity.StatusWellKnown),
		Change: changePtr(1),
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if got != entity.StatusWellKnown {
		t.Errorf("expected absolute status to take precedence, got %d", got)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	repo := newFakeTermRepo()
	term := repo.add(&entity.Term{LangID: 1, Text: "wasser", TextLC: "wasser", WordCount: 1, Status: entity.StatusLearning1})
	uc, _ := newTestReviewUsecase(t, repo, nil)

	if _, err := uc.UpdateStatus(context.Background(), UpdateStatusRequest{TermID: term.ID}); err != entity.ErrNoStatusUpdate {
		t.Errorf("expected ErrNoStatusUpdate when neither field is set, got %v", err)
	}
	if _, err := uc.UpdateStatus(context.Background(), UpdateStatusRequest{TermID: term.ID, Status: statusPtr(7)}); err != entity.ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus for status 7, got %v", err)
	}
	if _, err := uc.UpdateStatus(context.Background(), UpdateStatusRequest{TermID: 0, Change: changePtr(1)}); err != entity.ErrInvalidTermID {
		t.Errorf("expected ErrInvalidTermID, got %v", err)
	}
}

func TestNextWordGeneratesAndKeepsTestKey(t *testing.T) {
	repo := newFakeTermRepo()
	repo.add(&entity.Term{LangID: 1, Text: "eins", TextLC: "eins", WordCount: 1, Status: entity.StatusLearning1})
	uc, _ := newTestReviewUsecase(t, repo, nil)
	uc.newKey = func() string { return "generated-key" }

	term, key, err := uc.NextWord(context.Background(), entity.ReviewSessionParams{LangID: 1})
	if err != nil {
		t.Fatalf("NextWord returned error: %v", err)
	}
	if term == nil {
		t.Fatal("expected a term")
	}
	if key != "generated-key" {
		t.Errorf("expected generated test key, got %q", key)
	}

	_, key, err = uc.NextWord(context.Background(), entity.ReviewSessionParams{LangID: 1, TestKey: "caller-key"})
	if err != nil {
		t.Fatalf("NextWord returned error: %v", err)
	}
	if key != "caller-key" {
		t.Errorf("expected caller key echoed, got %q", key)
	}
}

func TestNextWordExcludesAlreadyAskedWithinSession(t *testing.T) {
	repo := newFakeTermRepo()
	repo.add(&entity.Term{LangID: 1, Text: "alpha", TextLC: "alpha", WordCount: 1, Status: entity.StatusLearning1})
	repo.add(&entity.Term{LangID: 1, Text: "beta", TextLC: "beta", WordCount: 1, Status: entity.StatusLearning1})
	uc, clock := newTestReviewUsecase(t, repo, nil)

	params := entity.ReviewSessionParams{LangID: 1, TestKey: "session-1"}

	got1, _, err := uc.NextWord(context.Background(), params)
	if err != nil {
		t.Fatalf("NextWord returned error: %v", err)
	}
	*clock = clock.Add(time.Minute)
	got2, _, err := uc.NextWord(context.Background(), params)
	if err != nil {
		t.Fatalf("NextWord returned error: %v", err)
	}
	if got1.ID == got2.ID {
		t.Fatalf("session re-presented term %d", got1.ID)
	}

	*clock = clock.Add(time.Minute)
	got3, _, err := uc.NextWord(context.Background(), params)
	if err != nil {
		t.Fatalf("NextWord returned error: %v", err)
	}
	if got3 != nil {
		t.Fatalf("expected exhausted pool after both terms were asked, got %+v", got3)
	}

	// A different session still sees the full pool.
	other, _, err := uc.NextWord(context.Background(), entity.ReviewSessionParams{LangID: 1, TestKey: "session-2"})
	if err != nil {
		t.Fatalf("NextWord returned error: %v", err)
	}
	if other == nil {
		t.Fatal("expected a term for a fresh session")
	}
}

func TestNextWordEmptyPoolIsNotAnError(t *testing.T) {
	uc, _ := newTestReviewUsecase(t, newFakeTermRepo(), nil)
	term, key, err := uc.NextWord(context.Background(), entity.ReviewSessionParams{LangID: 1, TestKey: "k"})
	if err != nil {
		t.Fatalf("expected no error for an empty pool, got %v", err)
	}
	if term != nil {
		t.Fatalf("expected nil term, got %+v", term)
	}
	if key != "k" {
		t.Errorf("expected test key echoed even on empty pool, got %q", key)
	}
}

func TestNextWordFiltersByModeRegexAndSelection(t *testing.T) {
	repo := newFakeTermRepo()
	repo.add(&entity.Term{LangID: 1, Text: "laufen", TextLC: "laufen", WordCount: 1, Status: entity.StatusLearning2})
	multi := repo.add(&entity.Term{LangID: 1, Text: "sich freuen", TextLC: "sich freuen", WordCount: 2, Status: entity.StatusLearning2})
	repo.add(&entity.Term{LangID: 1, Text: "zug", TextLC: "zug", WordCount: 1, Status: entity.StatusLearning5})
	repo.add(&entity.Term{LangID: 2, Text: "tren", TextLC: "tren", WordCount: 1, Status: entity.StatusLearning2})
	uc, _ := newTestReviewUsecase(t, repo, nil)

	term, _, err := uc.NextWord(context.Background(), entity.ReviewSessionParams{
		LangID:    1,
		Selection: "2",
		WordMode:  "multi",
		WordRegex: "freuen",
	})
	if err != nil {
		t.Fatalf("NextWord returned error: %v", err)
	}
	if term == nil || term.ID != multi.ID {
		t.Fatalf("expected the multi-word term, got %+v", term)
	}
}

func TestNextWordInvalidRegexRejected(t *testing.T) {
	uc, _ := newTestReviewUsecase(t, newFakeTermRepo(), nil)
	_, _, err := uc.NextWord(context.Background(), entity.ReviewSessionParams{LangID: 1, WordRegex: "["})
	if err == nil {
		t.Fatal("expected validation error for malformed regex")
	}
}

func TestNextWordLeastRecentlyAskedOrder(t *testing.T) {
	repo := newFakeTermRepo()
	recent := time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC)
	old := recent.Add(-48 * time.Hour)
	fresh := repo.add(&entity.Term{LangID: 1, Text: "neu", TextLC: "neu", WordCount: 1, Status: entity.StatusLearning1})
	_ = repo.add(&entity.Term{LangID: 1, Text: "gestern", TextLC: "gestern", WordCount: 1, Status: entity.StatusLearning1, LastAsked: &recent})
	_ = repo.add(&entity.Term{LangID: 1, Text: "vorgestern", TextLC: "vorgestern", WordCount: 1, Status: entity.StatusLearning1, LastAsked: &old})
	uc, _ := newTestReviewUsecase(t, repo, LeastRecentlyAsked{})

	term, _, err := uc.NextWord(context.Background(), entity.ReviewSessionParams{LangID: 1, TestKey: "k"})
	if err != nil {
		t.Fatalf("NextWord returned error: %v", err)
	}
	if term.ID != fresh.ID {
		t.Fatalf("expected the never-asked term first, got %+v", term)
	}
}

func TestNextWordStatusWeightedStrategy(t *testing.T) {
	repo := newFakeTermRepo()
	low := repo.add(&entity.Term{LangID: 1, Text: "schwer", TextLC: "schwer", WordCount: 1, Status: entity.StatusLearning1})
	_ = repo.add(&entity.Term{LangID: 1, Text: "leicht", TextLC: "leicht", WordCount: 1, Status: entity.StatusLearning4})
	uc, _ := newTestReviewUsecase(t, repo, StatusWeighted{})

	term, _, err := uc.NextWord(context.Background(), entity.ReviewSessionParams{LangID: 1, TestKey: "k"})
	if err != nil {
		t.Fatalf("NextWord returned error: %v", err)
	}
	if term.ID != low.ID {
		t.Fatalf("expected the lowest-stage term first, got %+v", term)
	}
}

func TestNextWordStampsLastAsked(t *testing.T) {
	repo := newFakeTermRepo()
	term := repo.add(&entity.Term{LangID: 1, Text: "uhr", TextLC: "uhr", WordCount: 1, Status: entity.StatusLearning1})
	uc, clock := newTestReviewUsecase(t, repo, nil)

	if _, _, err := uc.NextWord(context.Background(), entity.ReviewSessionParams{LangID: 1, TestKey: "k"}); err != nil {
		t.Fatalf("NextWord returned error: %v", err)
	}
	stored, err := repo.GetByID(context.Background(), term.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.LastAsked == nil || !stored.LastAsked.Equal(*clock) {
		t.Fatalf("expected last_asked stamped with the clock time, got %+v", stored.LastAsked)
	}
}

func TestBulkSetStatus(t *testing.T) {
	repo := newFakeTermRepo()
	a := repo.add(&entity.Term{LangID: 1, Text: "eins", TextLC: "eins", WordCount: 1, Status: entity.StatusLearning1})
	b := repo.add(&entity.Term{LangID: 1, Text: "zwei", TextLC: "zwei", WordCount: 1, Status: entity.StatusLearning3})
	repo.textTerms[5] = []int64{a.ID, b.ID}
	uc, _ := newTestReviewUsecase(t, repo, nil)

	affected, err := uc.BulkSetStatus(context.Background(), 5, entity.StatusWellKnown)
	if err != nil {
		t.Fatalf("BulkSetStatus returned error: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 affected terms, got %d", affected)
	}
	for _, id := range []int64{a.ID, b.ID} {
		stored, _ := repo.GetByID(context.Background(), id)
		if stored.Status != entity.StatusWellKnown {
			t.Errorf("term %d: expected status 99, got %d", id, stored.Status)
		}
	}

	if _, err := uc.BulkSetStatus(context.Background(), 5, 42); err != entity.ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := uc.BulkSetStatus(context.Background(), 0, entity.StatusIgnored); err != entity.ErrInvalidTextID {
		t.Errorf("expected ErrInvalidTextID, got %v", err)
	}
}
