package models

// Repository source kinds
const (
	RepoTypeWeb   = "web"
	RepoTypeLocal = "local"
)

// RepositoryInfo is the normalized identity of a repository, derived once by
// the locator and immutable afterwards.
type RepositoryInfo struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	Type      string `json:"type"` // web, local
	FullPath  string `json:"full_path,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
}

// WikiTaskRequest is the submission body for a generation job
type WikiTaskRequest struct {
	Owner    string         `json:"owner"`
	Repo     string         `json:"repo"`
	RepoURL  string         `json:"repo_url"`
	RepoInfo RepositoryInfo `json:"repo_info"`
	Token    string         `json:"token,omitempty"`
}
