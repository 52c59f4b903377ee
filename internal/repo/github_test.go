package repo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dpolishuk/codewiki/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webIdentity(owner, repo string) *models.RepositoryInfo {
	return &models.RepositoryInfo{Owner: owner, Repo: repo, Type: models.RepoTypeWeb}
}

func treeJSON(paths ...string) string {
	type entry struct {
		Path string `json:"path"`
		Type string `json:"type"`
	}
	entries := make([]entry, 0, len(paths)+1)
	for _, p := range paths {
		entries = append(entries, entry{Path: p, Type: "blob"})
	}
	entries = append(entries, entry{Path: "docs", Type: "tree"})
	data, _ := json.Marshal(map[string]any{"tree": entries})
	return string(data)
}

func TestGitHubProviderBranchFallback(t *testing.T) {
	var branchesTried []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/git/trees/main"):
			branchesTried = append(branchesTried, "main")
			http.Error(w, `{"message":"Not Found"}`, 404)
		case strings.Contains(r.URL.Path, "/git/trees/master"):
			branchesTried = append(branchesTried, "master")
			w.Write([]byte(treeJSON("main.go", "pkg/util.go")))
		case strings.HasSuffix(r.URL.Path, "/readme"):
			encoded := base64.StdEncoding.EncodeToString([]byte("# Hello\n"))
			json.NewEncoder(w).Encode(map[string]string{"content": encoded})
		default:
			http.Error(w, "unexpected path", 500)
		}
	}))
	defer server.Close()

	provider := NewGitHubProvider(server.URL, "")
	contents, err := provider.Fetch(context.Background(), webIdentity("owner", "repo"))
	require.NoError(t, err)

	assert.Equal(t, []string{"main", "master"}, branchesTried, "should try main before master")
	assert.Equal(t, []string{"main.go", "pkg/util.go"}, contents.FileList, "tree entries of type tree should be excluded")
	assert.Equal(t, "# Hello\n", contents.Readme)
}

func TestGitHubProviderAllBranchesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, 404)
	}))
	defer server.Close()

	provider := NewGitHubProvider(server.URL, "")
	_, err := provider.Fetch(context.Background(), webIdentity("owner", "repo"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API Error", "error should carry the last API error detail")
	assert.Contains(t, err.Error(), "404")
}

func TestGitHubProviderReadmeFailureIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/git/trees/main") {
			w.Write([]byte(treeJSON("README.md")))
			return
		}
		// README endpoint always fails
		http.Error(w, "boom", 500)
	}))
	defer server.Close()

	provider := NewGitHubProvider(server.URL, "")
	contents, err := provider.Fetch(context.Background(), webIdentity("owner", "repo"))
	require.NoError(t, err, "README failure must not abort the fetch")
	assert.Equal(t, "", contents.Readme)
	assert.Equal(t, []string{"README.md"}, contents.FileList)
}

func TestGitHubProviderSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/git/trees/main") {
			gotAuth = r.Header.Get("Authorization")
			gotAccept = r.Header.Get("Accept")
			w.Write([]byte(treeJSON("main.go")))
			return
		}
		http.Error(w, "no readme", 404)
	}))
	defer server.Close()

	provider := NewGitHubProvider(server.URL, "secret-token")
	_, err := provider.Fetch(context.Background(), webIdentity("owner", "repo"))
	require.NoError(t, err)

	assert.Equal(t, "token secret-token", gotAuth)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)
}
