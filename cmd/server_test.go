// ABOUTME: In-memory blog API used by the command tests
// ABOUTME: Serves the endpoints the CLI calls and records what it received

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/markalston/blogctl/internal/client"
)

const (
	validToken = "abc.def.ghi"

	techID   = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	goTagID  = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	postUUID = "6fa459ea-ee8a-3ca4-894e-db77e160355e"
)

// blogServer is a fake blog API
type blogServer struct {
	*httptest.Server

	mu sync.Mutex
	// rejectTokens makes every authenticated endpoint, /me included, answer 401
	rejectTokens bool
	// rejectData makes authenticated data endpoints answer 401 while /me works
	rejectData bool
	posts      []client.Post
	comments   []client.Comment
	requests   []string
	bodies     map[string][]byte
	queries    map[string]string
}

func newBlogServer(t *testing.T) *blogServer {
	t.Helper()
	s := &blogServer{
		bodies:  map[string][]byte{},
		queries: map[string]string{},
		posts: []client.Post{{
			ID:       postUUID,
			Title:    "Hello",
			Content:  "An existing body that is long enough.",
			Author:   &client.Author{ID: "42", Name: "ada"},
			Category: client.Category{ID: techID, Name: "Tech"},
			Tags:     []client.Tag{{ID: goTagID, Name: "go"}},
			Status:   client.StatusDraft,
		}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("POST /auth/register", s.register)
	mux.HandleFunc("GET /me", s.authed(s.me, false))
	mux.HandleFunc("GET /posts", s.listPosts)
	mux.HandleFunc("GET /posts/drafts", s.authed(s.listPosts, true))
	mux.HandleFunc("GET /posts/{id}", s.getPost)
	mux.HandleFunc("POST /posts", s.authed(s.savePost, true))
	mux.HandleFunc("PUT /posts/{id}", s.authed(s.savePost, true))
	mux.HandleFunc("DELETE /posts/{id}", s.authed(noContent, true))
	mux.HandleFunc("GET /posts/{id}/comments", s.listComments)
	mux.HandleFunc("POST /posts/{id}/comments", s.authed(s.addComment, true))
	mux.HandleFunc("DELETE /posts/{id}/comments/{cid}", s.authed(noContent, true))
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, []client.Category{{ID: techID, Name: "Tech", PostCount: 3}})
	})
	mux.HandleFunc("POST /categories", s.authed(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusCreated, client.Category{ID: techID, Name: "Tech"})
	}, true))
	mux.HandleFunc("DELETE /categories/{id}", s.authed(noContent, true))
	mux.HandleFunc("DELETE /tags/{id}", s.authed(noContent, true))
	mux.HandleFunc("GET /tags", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, []client.Tag{{ID: goTagID, Name: "go", PostCount: 2}})
	})

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

func (s *blogServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.requests = append(s.requests, key)
		s.bodies[key] = body
		s.queries[key] = r.URL.RawQuery
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *blogServer) authed(h http.HandlerFunc, data bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		reject := s.rejectTokens || (data && s.rejectData)
		s.mu.Unlock()

		if reject || r.Header.Get("Authorization") != "Bearer "+validToken {
			writeBody(w, http.StatusUnauthorized, client.ErrorResponse{Status: 401, Message: "Unauthorized"})
			return
		}
		h(w, r)
	}
}

func (s *blogServer) login(w http.ResponseWriter, r *http.Request) {
	var in client.LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Password != "secret1" {
		writeBody(w, http.StatusUnauthorized, client.ErrorResponse{Status: 401, Message: "Bad credentials"})
		return
	}
	writeBody(w, http.StatusOK, client.AuthResponse{Token: validToken})
}

func (s *blogServer) register(w http.ResponseWriter, r *http.Request) {
	var in client.RegisterRequest
	_ = json.NewDecoder(r.Body).Decode(&in)
	writeBody(w, http.StatusCreated, client.Author{ID: "43", Name: in.Name, Email: in.Email})
}

func (s *blogServer) me(w http.ResponseWriter, r *http.Request) {
	writeBody(w, http.StatusOK, map[string]interface{}{"id": 42, "name": "ada", "email": "ada@x.com"})
}

func (s *blogServer) listPosts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeBody(w, http.StatusOK, s.posts)
}

func (s *blogServer) getPost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == r.PathValue("id") {
			writeBody(w, http.StatusOK, p)
			return
		}
	}
	writeBody(w, http.StatusNotFound, client.ErrorResponse{Status: 404, Message: "Post not found"})
}

func (s *blogServer) savePost(w http.ResponseWriter, r *http.Request) {
	var in client.UpdatePostRequest
	_ = json.NewDecoder(r.Body).Decode(&in)
	id := r.PathValue("id")
	if id == "" {
		id = postUUID
	}
	writeBody(w, http.StatusOK, client.Post{ID: id, Title: in.Title, Content: in.Content, Status: in.Status})
}

func (s *blogServer) listComments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeBody(w, http.StatusOK, s.comments)
}

func (s *blogServer) addComment(w http.ResponseWriter, r *http.Request) {
	var in client.CreateCommentRequest
	_ = json.NewDecoder(r.Body).Decode(&in)
	writeBody(w, http.StatusCreated, client.Comment{ID: "c1", Content: in.Content})
}

func noContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func writeBody(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *blogServer) received(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r == key {
			return true
		}
	}
	return false
}

func (s *blogServer) body(t *testing.T, key string, v interface{}) {
	t.Helper()
	s.mu.Lock()
	data := s.bodies[key]
	s.mu.Unlock()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("request %s body: %v (%s)", key, err, data)
	}
}

func (s *blogServer) query(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[key]
}

// useServer points the global flags at srv with a fresh config dir
func useServer(t *testing.T, srv *blogServer) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("BLOGCTL_API_URL", "")
	t.Setenv("BLOGCTL_CONFIG_DIR", "")

	apiURL = srv.URL
	configDir = dir
	jsonOutput = false
	t.Cleanup(func() {
		apiURL = ""
		configDir = ""
		jsonOutput = false
	})
	return dir
}

// signIn stores a valid token the way a previous login would have
func signIn(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte(validToken), 0600); err != nil {
		t.Fatal(err)
	}
}

// runCmd runs fn against the configured server and returns exit code and output
func runCmd(fn runner) (int, string) {
	var buf bytes.Buffer
	code := run(context.Background(), &buf, fn)
	return code, buf.String()
}
