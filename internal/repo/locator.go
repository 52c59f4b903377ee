package repo

import (
	"regexp"
	"strings"

	"github.com/dpolishuk/codewiki/backend/internal/models"
	giturls "github.com/whilp/git-urls"
)

var (
	windowsPathRegex = regexp.MustCompile("^[a-zA-Z]:\\\\(?:[^\\\\/:*?\"<>|\\r\\n]+\\\\)*[^\\\\/:*?\"<>|\\r\\n]*$")
	remoteRepoRegex  = regexp.MustCompile(`^(?:https?://)?([^/]+)/(.+?)/([^/]+?)(?:\.git)?/?$`)
)

// ParseRepositoryInput derives a repository identity from a raw user-supplied
// reference. Windows and Unix absolute paths become local identities; anything
// matching host/owner/repo (with optional scheme and .git suffix) becomes a web
// identity. Unsupported input returns nil, never an error.
func ParseRepositoryInput(input string) *models.RepositoryInfo {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	if windowsPathRegex.MatchString(input) {
		repo := "local-repo"
		for _, part := range strings.Split(input, `\`) {
			if part != "" && !strings.Contains(part, ":") {
				repo = part
			}
		}
		return &models.RepositoryInfo{
			Owner:     "local",
			Repo:      repo,
			Type:      models.RepoTypeLocal,
			LocalPath: input,
		}
	}

	if strings.HasPrefix(input, "/") {
		repo := "local-repo"
		for _, part := range strings.Split(input, "/") {
			if part != "" {
				repo = part
			}
		}
		return &models.RepositoryInfo{
			Owner:     "local",
			Repo:      repo,
			Type:      models.RepoTypeLocal,
			LocalPath: input,
		}
	}

	if !remoteRepoRegex.MatchString(input) {
		return nil
	}

	// Normalize scheme-ful, scp-like and bare host/owner/repo forms the same
	// way, then read owner and repo off the last two path segments.
	u, err := giturls.Parse(input)
	if err != nil {
		return nil
	}
	var segments []string
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	// Bare host/owner/repo input parses without a host, leaving the host as
	// the leading path segment.
	if u.Host == "" && len(segments) > 2 {
		segments = segments[1:]
	}
	if len(segments) < 2 {
		return nil
	}

	owner := strings.TrimSpace(segments[len(segments)-2])
	repoName := strings.TrimSpace(strings.TrimSuffix(segments[len(segments)-1], ".git"))
	if owner == "" || repoName == "" {
		return nil
	}

	return &models.RepositoryInfo{
		Owner:    owner,
		Repo:     repoName,
		Type:     models.RepoTypeWeb,
		FullPath: strings.TrimSuffix(strings.Join(segments, "/"), ".git"),
	}
}
