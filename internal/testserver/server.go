// Package testserver runs an in-memory notes server over httptest for
// integration tests and examples. It speaks the same resource layout as the
// real service under /api.
package testserver

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/notely/pkg/core"
)

type user struct {
	account  core.Account
	password string
	notes    []core.Note
	tags     []core.Tag
}

// Server is a fake notes service. Each user sees only their own notes and tags.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]*user // by username
	sessions map[string]*user // by token
	nextID   int
	requests int
}

// New starts a server. Callers must Close it.
func New() *Server {
	s := &Server{
		users:    make(map[string]*user),
		sessions: make(map[string]*user),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", s.register)
	mux.HandleFunc("PATCH /api/users/{id}", s.authed(s.updateUser))
	mux.HandleFunc("DELETE /api/users/{id}", s.authed(s.deleteUser))
	mux.HandleFunc("POST /api/sessions", s.login)
	mux.HandleFunc("DELETE /api/sessions", s.authed(s.logout))
	mux.HandleFunc("GET /api/notes", s.authed(s.listNotes))
	mux.HandleFunc("POST /api/notes", s.authed(s.createNote))
	mux.HandleFunc("PATCH /api/notes/{id}", s.authed(s.updateNote))
	mux.HandleFunc("DELETE /api/notes/{id}", s.authed(s.deleteNote))
	mux.HandleFunc("GET /api/tags", s.authed(s.listTags))
	mux.HandleFunc("POST /api/tags", s.authed(s.createTag))
	mux.HandleFunc("PATCH /api/tags/{id}", s.authed(s.updateTag))
	mux.HandleFunc("DELETE /api/tags/{id}", s.authed(s.deleteTag))

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	return s
}

// BaseURL is the API root to hand to a client.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Requests returns the number of requests served so far.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Notes returns a copy of the notes stored for username.
func (s *Server) Notes(username string) []core.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil
	}
	out := make([]core.Note, len(u.notes))
	for i, n := range u.notes {
		out[i] = n.Clone()
	}
	return out
}

// Token builds the token the server issues for an account: an unsigned
// three-segment token whose payload carries id and username.
func Token(a core.Account) string {
	payload, _ := json.Marshal(map[string]string{"id": a.ID.String(), "username": a.Username})
	return "eyJhbGciOiJub25lIn0." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func (s *Server) id() core.ID {
	s.nextID++
	return core.ID(strconv.Itoa(s.nextID))
}

type handler func(w http.ResponseWriter, r *http.Request, u *user)

func (s *Server) authed(h handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.sessions[token]
		if !ok {
			fail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		h(w, r, u)
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var c core.Credentials
	if !decode(w, r, &c) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Username == "" || c.Password == "" {
		fail(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if _, taken := s.users[c.Username]; taken {
		fail(w, http.StatusConflict, "Username already taken")
		return
	}
	u := &user{account: core.Account{ID: s.id(), Username: c.Username}, password: c.Password}
	s.users[c.Username] = u
	reply(w, http.StatusCreated, map[string]any{"user": u.account})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var c core.Credentials
	if !decode(w, r, &c) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[c.Username]
	if !ok || u.password != c.Password {
		fail(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	token := Token(u.account)
	s.sessions[token] = u
	reply(w, http.StatusCreated, core.LoginResult{Token: token})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request, u *user) {
	for token, owner := range s.sessions {
		if owner == u {
			delete(s.sessions, token)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request, u *user) {
	if r.PathValue("id") != u.account.ID.String() {
		fail(w, http.StatusForbidden, "Forbidden")
		return
	}
	var patch core.AccountPatch
	if !decode(w, r, &patch) {
		return
	}
	if patch.Password != nil {
		if patch.CurrentPassword == nil || *patch.CurrentPassword != u.password {
			fail(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		u.password = *patch.Password
	}
	if patch.Username != nil && *patch.Username != u.account.Username {
		if _, taken := s.users[*patch.Username]; taken {
			fail(w, http.StatusConflict, "Username already taken")
			return
		}
		delete(s.users, u.account.Username)
		u.account.Username = *patch.Username
		s.users[u.account.Username] = u
	}
	reply(w, http.StatusOK, map[string]any{"user": u.account})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request, u *user) {
	if r.PathValue("id") != u.account.ID.String() {
		fail(w, http.StatusForbidden, "Forbidden")
		return
	}
	delete(s.users, u.account.Username)
	for token, owner := range s.sessions {
		if owner == u {
			delete(s.sessions, token)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listNotes(w http.ResponseWriter, _ *http.Request, u *user) {
	out := u.notes
	if out == nil {
		out = []core.Note{}
	}
	reply(w, http.StatusOK, out)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request, u *user) {
	var d core.NoteDraft
	if !decode(w, r, &d) {
		return
	}
	n := core.Note{
		ID:       s.id(),
		Title:    d.Title,
		Content:  d.Content,
		Tags:     d.Tags,
		Reminder: d.Reminder,
		Pinned:   d.Pinned,
		Archived: d.Archived,
		Trashed:  d.Trashed,
	}
	u.notes = append(u.notes, n)
	reply(w, http.StatusCreated, map[string]any{"note": n})
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request, u *user) {
	i := indexOf(u.notes, r.PathValue("id"), func(n core.Note) core.ID { return n.ID })
	if i < 0 {
		fail(w, http.StatusNotFound, "Note not found")
		return
	}
	n := u.notes[i]
	if !decode(w, r, &n) {
		return
	}
	n.ID = u.notes[i].ID
	u.notes[i] = n
	reply(w, http.StatusOK, map[string]any{"note": n})
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request, u *user) {
	i := indexOf(u.notes, r.PathValue("id"), func(n core.Note) core.ID { return n.ID })
	if i < 0 {
		fail(w, http.StatusNotFound, "Note not found")
		return
	}
	u.notes = append(u.notes[:i], u.notes[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTags(w http.ResponseWriter, _ *http.Request, u *user) {
	out := u.tags
	if out == nil {
		out = []core.Tag{}
	}
	reply(w, http.StatusOK, out)
}

func (s *Server) createTag(w http.ResponseWriter, r *http.Request, u *user) {
	var body struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &body) {
		return
	}
	t := core.Tag{ID: s.id(), Name: body.Name}
	u.tags = append(u.tags, t)
	reply(w, http.StatusCreated, map[string]any{"tag": t})
}

func (s *Server) updateTag(w http.ResponseWriter, r *http.Request, u *user) {
	i := indexOf(u.tags, r.PathValue("id"), func(t core.Tag) core.ID { return t.ID })
	if i < 0 {
		fail(w, http.StatusNotFound, "Tag not found")
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &body) {
		return
	}
	u.tags[i].Name = body.Name
	reply(w, http.StatusOK, map[string]any{"tag": u.tags[i]})
}

func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request, u *user) {
	i := indexOf(u.tags, r.PathValue("id"), func(t core.Tag) core.ID { return t.ID })
	if i < 0 {
		fail(w, http.StatusNotFound, "Tag not found")
		return
	}
	u.tags = append(u.tags[:i], u.tags[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func indexOf[T any](items []T, id string, idOf func(T) core.ID) int {
	for i, item := range items {
		if idOf(item).String() == id {
			return i
		}
	}
	return -1
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	raw, err := io.ReadAll(r.Body)
	if err == nil {
		err = json.Unmarshal(raw, out)
	}
	if err != nil {
		fail(w, http.StatusBadRequest, fmt.Sprintf("Invalid body: %v", err))
		return false
	}
	return true
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func fail(w http.ResponseWriter, status int, message string) {
	reply(w, status, map[string]string{"message": message})
}
