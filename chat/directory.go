package chat

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"allai/models"
	"allai/services"
)

// Identity reports who is signed in. An empty token means signed out.
type Identity interface {
	Token() string
	AccountID() string
}

// SessionAPI is the chat service's session surface.
type SessionAPI interface {
	CreateSession(ctx context.Context, accountID, name string, now time.Time) (string, error)
	ListSessions(ctx context.Context, accountID string) ([]models.SessionRecord, error)
	RenameSession(ctx context.Context, accountID, sessionID, title string) error
	TouchSession(ctx context.Context, accountID, sessionID string, at time.Time) error
	DeleteSession(ctx context.Context, accountID, sessionID string) error
}

const touchTimeout = 10 * time.Second

// Directory manages the account's conversation list and the active one.
type Directory struct {
	state    *State
	api      SessionAPI
	history  *HistoryLoader
	identity Identity
	onSignIn func()
	now      func() time.Time

	pending sync.WaitGroup
}

// NewDirectory wires a directory. onSignIn runs whenever an operation needs
// a signed-in account and there is none; it may be nil.
func NewDirectory(state *State, api SessionAPI, history *HistoryLoader, identity Identity, onSignIn func()) *Directory {
	return &Directory{
		state:    state,
		api:      api,
		history:  history,
		identity: identity,
		onSignIn: onSignIn,
		now:      time.Now,
	}
}

// Init loads the account's conversations and activates the most recent
// one, creating a first "New Chat" when there are none.
func (d *Directory) Init(ctx context.Context) error {
	if d.identity.AccountID() == "" {
		return nil
	}

	convs, err := d.List(ctx)
	if err != nil {
		log.Printf("Initialization failed: %v", err)
		return err
	}

	if len(convs) == 0 {
		id, err := d.Create(ctx, DefaultTitle)
		if err != nil {
			log.Printf("Initialization failed: %v", err)
			return err
		}
		d.state.setConversations([]models.Conversation{{ID: id, Title: DefaultTitle, LastActivity: d.now()}})
		d.state.setActive(id)
		return nil
	}

	d.state.setActive(convs[0].ID)
	if _, err := d.history.Load(ctx, convs[0].ID); err != nil {
		log.Printf("Failed to fetch history for session %s: %v", convs[0].ID, err)
		return err
	}
	return nil
}

// List fetches the account's conversations, most recently active first,
// and installs them as the directory listing.
func (d *Directory) List(ctx context.Context) ([]models.Conversation, error) {
	records, err := d.api.ListSessions(ctx, d.identity.AccountID())
	if err != nil {
		return nil, err
	}

	convs := make([]models.Conversation, 0, len(records))
	for _, r := range records {
		title := r.SessionName
		if title == "" {
			title = DefaultTitle
		}
		convs = append(convs, models.Conversation{
			ID:           r.SessionID,
			Title:        title,
			LastActivity: d.activityTime(r),
		})
	}
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].LastActivity.After(convs[j].LastActivity)
	})

	d.state.setConversations(convs)
	return convs, nil
}

func (d *Directory) activityTime(r models.SessionRecord) time.Time {
	raw := r.LastActivity
	if raw == "" {
		raw = r.TimeStamp
	}
	if raw == "" {
		return d.now()
	}
	t, err := services.ParseActivityTime(raw)
	if err != nil {
		log.Printf("Unparseable activity time %q for session %s", raw, r.SessionID)
		return d.now()
	}
	return t
}

// Create asks the chat service for a new session and returns its id. The
// listing is not changed.
func (d *Directory) Create(ctx context.Context, title string) (string, error) {
	return d.api.CreateSession(ctx, d.identity.AccountID(), title, d.now())
}

// NewChat creates a "New Chat" session, puts it at the top of the listing
// and activates it.
func (d *Directory) NewChat(ctx context.Context) (string, error) {
	if d.identity.Token() == "" || d.identity.AccountID() == "" {
		d.requireSignIn()
		return "", ErrNotAuthenticated
	}

	id, err := d.Create(ctx, DefaultTitle)
	if err != nil {
		log.Printf("Failed to create new session: %v", err)
		return "", err
	}
	d.state.prependConversation(models.Conversation{ID: id, Title: DefaultTitle, LastActivity: d.now()})
	d.state.setActive(id)
	return id, nil
}

// Rename updates a title on the chat service, then locally. Order is kept.
func (d *Directory) Rename(ctx context.Context, sessionID, title string) error {
	if err := d.api.RenameSession(ctx, d.identity.AccountID(), sessionID, title); err != nil {
		log.Printf("Failed to rename session %s: %v", sessionID, err)
		return err
	}
	d.state.renameConversation(sessionID, title)
	return nil
}

// Delete removes a session remotely, then drops its conversation,
// transcripts and loading flags.
func (d *Directory) Delete(ctx context.Context, sessionID string) error {
	if err := d.api.DeleteSession(ctx, d.identity.AccountID(), sessionID); err != nil {
		log.Printf("Failed to delete session %s: %v", sessionID, err)
		return err
	}
	d.state.dropSession(sessionID)
	return nil
}

// Touch marks a session active at the given time. Failures are logged only.
func (d *Directory) Touch(ctx context.Context, sessionID string, at time.Time) {
	if err := d.api.TouchSession(ctx, d.identity.AccountID(), sessionID, at); err != nil {
		log.Printf("Failed to update last activity for session %s: %v", sessionID, err)
	}
}

// Select activates a conversation, bumps its last activity in the
// background and loads its history if nothing is cached for it. The
// listing is not reordered.
func (d *Directory) Select(ctx context.Context, sessionID string) error {
	d.state.setActive(sessionID)

	at := d.now()
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		touchCtx, cancel := context.WithTimeout(context.Background(), touchTimeout)
		defer cancel()
		d.Touch(touchCtx, sessionID, at)
	}()

	if d.state.HasTranscripts(sessionID) {
		return nil
	}
	if _, err := d.history.Load(ctx, sessionID); err != nil {
		log.Printf("Failed to fetch history for session %s: %v", sessionID, err)
		return err
	}
	return nil
}

// Wait blocks until background touches have finished.
func (d *Directory) Wait() {
	d.pending.Wait()
}

func (d *Directory) requireSignIn() {
	if d.onSignIn != nil {
		d.onSignIn()
	}
}
