package chat

import (
	"context"
	"sync"
	"time"

	"allai/models"
	"allai/registry"
)

type testIdentity struct {
	token   string
	account string
}

func (i testIdentity) Token() string     { return i.token }
func (i testIdentity) AccountID() string { return i.account }

var signedIn = testIdentity{token: "tok", account: "ada@example.com"}

// fakeService is an in-memory chat service.
type fakeService struct {
	mu sync.Mutex

	sessions []models.SessionRecord
	listErr  error

	createID  string
	createErr error
	created   []string

	renameErr error
	renamed   map[string]string

	deleteErr error
	deleted   []string

	touchErr error
	touched  []string

	history      map[string][]models.HistoryTurn
	historyErr   error
	historyCalls int

	chatBody []byte
	chatErr  error
	chatReqs []models.ChatRequest
	onChat   func(models.ChatRequest)
}

func newFakeService() *fakeService {
	return &fakeService{
		renamed: make(map[string]string),
		history: make(map[string][]models.HistoryTurn),
	}
}

func (f *fakeService) CreateSession(ctx context.Context, accountID, name string, now time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, name)
	return f.createID, nil
}

func (f *fakeService) ListSessions(ctx context.Context, accountID string) ([]models.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.SessionRecord{}, f.sessions...), nil
}

func (f *fakeService) RenameSession(ctx context.Context, accountID, sessionID, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.renameErr != nil {
		return f.renameErr
	}
	f.renamed[sessionID] = title
	return nil
}

func (f *fakeService) TouchSession(ctx context.Context, accountID, sessionID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, sessionID)
	return f.touchErr
}

func (f *fakeService) DeleteSession(ctx context.Context, accountID, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func (f *fakeService) History(ctx context.Context, sessionID string) ([]models.HistoryTurn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[sessionID], nil
}

func (f *fakeService) Chat(ctx context.Context, req models.ChatRequest) ([]byte, error) {
	f.mu.Lock()
	f.chatReqs = append(f.chatReqs, req)
	hook := f.onChat
	body, err := f.chatBody, f.chatErr
	f.mu.Unlock()
	if hook != nil {
		hook(req)
	}
	return body, err
}

// newTestState enables exactly the given models on the default catalog.
func newTestState(plan string, enabled ...string) *State {
	on := make(map[string]bool)
	for _, id := range enabled {
		on[id] = true
	}
	return NewState(registry.Default(), plan, on, nil)
}

type harness struct {
	state     *State
	svc       *fakeService
	history   *HistoryLoader
	dir       *Directory
	router    *Router
	signIns   int
	clockBase time.Time
	ticks     int
}

func newHarness(state *State, identity Identity) *harness {
	h := &harness{
		state:     state,
		svc:       newFakeService(),
		clockBase: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	onSignIn := func() { h.signIns++ }
	h.history = NewHistoryLoader(state, h.svc)
	h.dir = NewDirectory(state, h.svc, h.history, identity, onSignIn)
	h.router = NewRouter(state, h.svc, identity, onSignIn)

	clock := func() time.Time {
		h.ticks++
		return h.clockBase.Add(time.Duration(h.ticks) * time.Second)
	}
	h.history.now = clock
	h.dir.now = clock
	h.router.now = clock
	return h
}
