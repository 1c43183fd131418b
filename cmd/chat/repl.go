package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"allai/chat"
	"allai/client"
	"allai/config"
	"allai/models"
	"allai/registry"
)

const helpText = `Commands:
  /new                 start a new chat
  /list                list conversations
  /switch <n|id>       open a conversation
  /rename [title]      rename the active conversation
  /delete [n|id]       delete a conversation (default: active)
  /models              show models, versions and toggles
  /enable <model>      include a model in broadcasts
  /disable <model>     exclude a model from broadcasts
  /version <model> <v> pick the version sent for a model
  /enhance <prompt>    rewrite a prompt before sending
  /quit                exit
Anything else is sent to every enabled model.`

type repl struct {
	cfg     *config.ClientConfig
	cfgPath string
	state   *chat.State
	dir     *chat.Directory
	router  *chat.Router
	auth    *client.AuthAPI
	line    *liner.State
	out     io.Writer
	suggest string
}

func runREPL(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, credsPath, creds, err := loadEnv()
	if err != nil {
		return err
	}
	cfgPath, _, err := paths()
	if err != nil {
		return err
	}

	auth := client.NewAuthAPI(cfg.APIBaseURL, cfg.Timeout.Duration)
	id := &identity{}
	if creds.Authenticated() {
		user, err := auth.Me(ctx, creds.Token)
		switch {
		case err == nil:
			creds.User = user
			id.set(creds)
		case client.IsStatus(err, http.StatusUnauthorized):
			fmt.Println(errorStyle.Render("Session expired. Run `chat signin`."))
			if err := client.ClearCredentials(credsPath); err != nil {
				log.Printf("Failed to clear credentials: %v", err)
			}
			creds = client.Credentials{}
		default:
			log.Printf("Could not refresh account, using cached profile: %v", err)
			id.set(creds)
		}
	}

	onSignIn := func() {
		fmt.Println(errorStyle.Render("Please sign in first: run `chat signin`."))
	}

	state := chat.NewState(registry.Default(), creds.User.Plan(), cfg.EnabledModels, cfg.SelectedVersions)
	svc := client.NewChatService(cfg.ChatBaseURL, cfg.Timeout.Duration, id.Token)
	history := chat.NewHistoryLoader(state, svc)
	dir := chat.NewDirectory(state, svc, history, id, onSignIn)
	router := chat.NewRouter(state, svc, id, onSignIn)

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	r := &repl{
		cfg:     cfg,
		cfgPath: cfgPath,
		state:   state,
		dir:     dir,
		router:  router,
		auth:    auth,
		line:    line,
		out:     os.Stdout,
	}
	defer r.close()

	if id.AccountID() == "" {
		onSignIn()
	} else if err := dir.Init(ctx); err != nil {
		fmt.Println(errorStyle.Render("Failed to load conversations: " + err.Error()))
	}
	r.printTranscript(state.ActiveSession())
	fmt.Println(infoStyle.Render("Type /help for commands."))

	for {
		var input string
		if r.suggest != "" {
			input, err = line.PromptWithSuggestion(promptStyle.Render("you> "), r.suggest, -1)
			r.suggest = ""
		} else {
			input, err = line.Prompt(promptStyle.Render("you> "))
		}
		if err != nil {
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			more, err := r.command(ctx, input)
			if err != nil {
				fmt.Println(errorStyle.Render("[Error] ") + err.Error())
			}
			if !more {
				return nil
			}
			continue
		}
		r.send(ctx, input)
	}
}

// close persists the model toggles and waits for background session updates.
func (r *repl) close() {
	r.cfg.EnabledModels = copyMap(r.state.Enabled())
	r.cfg.SelectedVersions = copyMap(r.state.SelectedVersions())
	if err := config.SaveClientConfig(r.cfgPath, r.cfg); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
	r.dir.Wait()
}

func (r *repl) send(ctx context.Context, prompt string) {
	sessionID := r.state.ActiveSession()
	before := make(map[string]int)
	for modelID, msgs := range r.state.Transcripts(sessionID) {
		before[modelID] = len(msgs)
	}

	fmt.Fprintln(r.out, infoStyle.Render(fmt.Sprintf("Asking %s...", strings.Join(r.state.EnabledModels(), ", "))))
	if err := r.router.Send(ctx, prompt); err != nil {
		if !errors.Is(err, chat.ErrNotAuthenticated) {
			fmt.Fprintln(r.out, errorStyle.Render("[Error] ") + err.Error())
		}
		return
	}

	transcripts := r.state.Transcripts(sessionID)
	versions := r.state.SelectedVersions()
	for _, modelID := range r.state.EnabledModels() {
		msgs := transcripts[modelID]
		for _, m := range msgs[min(before[modelID], len(msgs)):] {
			if m.Role != models.RoleAssistant {
				continue
			}
			fmt.Fprintln(r.out, modelHeader(r.state.Registry().Resolve(modelID), versions[modelID]))
			fmt.Fprint(r.out, renderMarkdown(m.Content))
		}
	}
}

func (r *repl) command(ctx context.Context, input string) (bool, error) {
	name, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch name {
	case "/quit", "/exit", "/q":
		return false, nil
	case "/help", "/?":
		fmt.Fprintln(r.out, helpText)
	case "/new":
		if _, err := r.dir.NewChat(ctx); err != nil {
			if errors.Is(err, chat.ErrNotAuthenticated) {
				return true, nil
			}
			return true, err
		}
		fmt.Fprintln(r.out, infoStyle.Render("Started a new chat."))
	case "/list":
		r.printConversations()
	case "/switch":
		sessionID, err := r.pickSession(args)
		if err != nil {
			return true, err
		}
		if err := r.dir.Select(ctx, sessionID); err != nil {
			return true, err
		}
		r.printTranscript(sessionID)
	case "/rename":
		sessionID := r.state.ActiveSession()
		if sessionID == "" {
			return true, errors.New("no active conversation")
		}
		title := rest
		if title == "" {
			title = chat.TitleFromMessage(firstUserMessage(r.state.Transcripts(sessionID)))
		}
		if err := r.dir.Rename(ctx, sessionID, title); err != nil {
			return true, err
		}
		fmt.Fprintln(r.out, infoStyle.Render("Renamed to " + strconv.Quote(title)))
	case "/delete":
		sessionID := r.state.ActiveSession()
		if len(args) > 0 {
			var err error
			if sessionID, err = r.pickSession(args); err != nil {
				return true, err
			}
		}
		if sessionID == "" {
			return true, errors.New("no active conversation")
		}
		if err := r.dir.Delete(ctx, sessionID); err != nil {
			return true, err
		}
		fmt.Fprintln(r.out, infoStyle.Render("Deleted."))
	case "/models":
		r.printModels()
	case "/enable", "/disable":
		if len(args) != 1 {
			return true, fmt.Errorf("usage: %s <model>", name)
		}
		if err := r.state.SetModelEnabled(args[0], name == "/enable"); err != nil {
			if errors.Is(err, chat.ErrUpgradeRequired) {
				return true, fmt.Errorf("%s needs the premium plan", args[0])
			}
			return true, err
		}
		r.printModels()
	case "/version":
		if len(args) != 2 {
			return true, errors.New("usage: /version <model> <version>")
		}
		if err := r.state.SelectVersion(args[0], args[1]); err != nil {
			return true, err
		}
		r.printModels()
	case "/enhance":
		if rest == "" {
			return true, errors.New("usage: /enhance <prompt>")
		}
		improved, err := r.auth.Enhance(ctx, rest)
		if err != nil {
			return true, authError(err)
		}
		r.suggest = improved
	default:
		return true, fmt.Errorf("unknown command %s, try /help", name)
	}
	return true, nil
}

// pickSession accepts a 1-based listing index or a session id.
func (r *repl) pickSession(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected a conversation number or id")
	}
	return resolveSession(r.state.Conversations(), args[0])
}

func resolveSession(convs []models.Conversation, arg string) (string, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(convs) {
			return "", fmt.Errorf("no conversation #%d", n)
		}
		return convs[n-1].ID, nil
	}
	for _, c := range convs {
		if c.ID == arg {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("no conversation %q", arg)
}

func (r *repl) printConversations() {
	convs := r.state.Conversations()
	if len(convs) == 0 {
		fmt.Fprintln(r.out, infoStyle.Render("No conversations."))
		return
	}
	active := r.state.ActiveSession()
	for i, c := range convs {
		row := fmt.Sprintf("%2d. %s  %s", i+1, c.Title, infoStyle.Render(c.LastActivity.Local().Format("2006-01-02 15:04")))
		if c.ID == active {
			row = activeStyle.Render("*") + row
		} else {
			row = " " + row
		}
		fmt.Fprintln(r.out, row)
	}
}

func (r *repl) printModels() {
	enabled := r.state.Enabled()
	versions := r.state.SelectedVersions()
	plan := r.state.Plan()
	for _, m := range r.state.Registry().Models() {
		mark := " "
		if enabled[m.ID] {
			mark = activeStyle.Render("✓")
		}
		note := ""
		if r.state.Registry().Locked(m.ID, plan) {
			note = infoStyle.Render(" (premium)")
		}
		fmt.Fprintf(r.out, "%s %-9s %s%s\n", mark, m.ID, versions[m.ID], note)
	}
}

func (r *repl) printTranscript(sessionID string) {
	if sessionID == "" {
		return
	}
	transcripts := r.state.Transcripts(sessionID)
	versions := r.state.SelectedVersions()
	ids := make([]string, 0, len(transcripts))
	for id := range transcripts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, modelID := range ids {
		fmt.Fprintln(r.out, modelHeader(r.state.Registry().Resolve(modelID), versions[modelID]))
		for _, m := range transcripts[modelID] {
			if m.Role == models.RoleUser {
				fmt.Fprintln(r.out, promptStyle.Render("you> ") + m.Content)
				continue
			}
			fmt.Fprint(r.out, renderMarkdown(m.Content))
		}
	}
}

// firstUserMessage returns the earliest user prompt across transcripts.
func firstUserMessage(transcripts map[string][]models.Message) string {
	var first *models.Message
	for _, msgs := range transcripts {
		for i := range msgs {
			if msgs[i].Role != models.RoleUser {
				continue
			}
			if first == nil || msgs[i].Timestamp.Before(first.Timestamp) {
				first = &msgs[i]
			}
			break
		}
	}
	if first == nil {
		return ""
	}
	return first.Content
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
