package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/readvoc/internal/entity"
	"github.com/eslsoft/readvoc/internal/repository"
)

// reviewPoolLimit caps how many candidates one selection round fetches.
const reviewPoolLimit = 500

// maxTrackedSessions bounds the in-memory test-key exclusion table.
const maxTrackedSessions = 256

// UpdateStatusRequest carries one status transition. Exactly one of Status
// (absolute set) or Change (relative delta) is meaningful; the absolute set
// wins when both are supplied.
type UpdateStatusRequest struct {
	TermID int64
	Status *entity.Status
	Change *int32
}

// ReviewUsecase selects the next term for a testing session and applies
// status transitions from test results.
type ReviewUsecase interface {
	// NextWord returns one eligible term and the session's test key,
	// generating a key when the caller supplied none. A nil term with a
	// nil error means the pool is exhausted.
	NextWord(ctx context.Context, params entity.ReviewSessionParams) (*entity.Term, string, error)

	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (entity.Status, error)

	// BulkSetStatus marks every term occurring in a text with one status.
	BulkSetStatus(ctx context.Context, textID int64, status entity.Status) (int64, error)
}

// NewReviewUsecase wires the term repository with the given selection
// strategy. A nil strategy falls back to least-recently-asked.
func NewReviewUsecase(terms repository.TermRepository, strategy Strategy) ReviewUsecase {
	if strategy == nil {
		strategy = LeastRecentlyAsked{}
	}
	return &reviewUsecase{
		terms:    terms,
		strategy: strategy,
		sessions: newSessionMemory(maxTrackedSessions),
		clock:    time.Now,
		newKey:   uuid.NewString,
	}
}

type reviewUsecase struct {
	terms    repository.TermRepository
	strategy Strategy
	sessions *sessionMemory
	clock    func() time.Time
	newKey   func() string
}

func (u *reviewUsecase) NextWord(ctx context.Context, params entity.ReviewSessionParams) (*entity.Term, string, error) {
	session, err := entity.NewReviewSession(params)
	if err != nil {
		return nil, "", err
	}
	if session.TestKey == "" {
		session.TestKey = u.newKey()
	}

	query := &repository.ReviewPoolQuery{
		LangID:     session.LangID,
		MinStatus:  session.Selection.Min,
		MaxStatus:  session.Selection.Max,
		WordMode:   session.WordMode,
		ExcludeIDs: u.sessions.asked(session.TestKey),
		Limit:      reviewPoolLimit,
	}
	pool, err := u.terms.ListReviewPool(ctx, query)
	if err != nil {
		return nil, "", err
	}

	eligible := pool[:0]
	for _, term := range pool {
		if session.Matches(term) {
			eligible = append(eligible, term)
		}
	}
	if len(eligible) == 0 {
		return nil, session.TestKey, nil
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return u.strategy.Less(eligible[i], eligible[j])
	})

	next := eligible[0]
	u.sessions.remember(session.TestKey, next.ID)
	if err := u.terms.MarkAsked(ctx, next.ID, u.clock()); err != nil {
		return nil, "", err
	}
	return next, session.TestKey, nil
}

func (u *reviewUsecase) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (entity.Status, error) {
	if req.TermID <= 0 {
		return 0, entity.ErrInvalidTermID
	}

	now := u.clock()
	switch {
	case req.Status != nil:
		if !req.Status.Valid() {
			return 0, entity.ErrInvalidStatus
		}
		return u.terms.SetStatus(ctx, req.TermID, *req.Status, now)
	case req.Change != nil:
		return u.terms.ShiftStatus(ctx, req.TermID, *req.Change, now)
	default:
		return 0, entity.ErrNoStatusUpdate
	}
}

func (u *reviewUsecase) BulkSetStatus(ctx context.Context, textID int64, status entity.Status) (int64, error) {
	if textID <= 0 {
		return 0, entity.ErrInvalidTextID
	}
	if !status.Valid() {
		return 0, entity.ErrInvalidStatus
	}
	return u.terms.BulkSetStatusForText(ctx, textID, status, u.clock())
}

// sessionMemory tracks which terms each test key already saw so a session
// never re-presents its just-answered term. Keys are evicted FIFO once the
// table is full; sessions are ephemeral by contract.
type sessionMemory struct {
	mu    sync.Mutex
	seen  map[string]map[int64]struct{}
	order []string
	cap   int
}

func newSessionMemory(capacity int) *sessionMemory {
	return &sessionMemory{
		seen: make(map[string]map[int64]struct{}),
		cap:  capacity,
	}
}

func (m *sessionMemory) asked(testKey string) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := lo.Keys(m.seen[testKey])
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *sessionMemory) remember(testKey string, termID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[testKey]; !ok {
		if len(m.order) >= m.cap {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.seen, oldest)
		}
		m.seen[testKey] = make(map[int64]struct{})
		m.order = append(m.order, testKey)
	}
	m.seen[testKey][termID] = struct{}{}
}
