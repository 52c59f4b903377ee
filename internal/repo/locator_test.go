package repo

import (
	"testing"

	"github.com/dpolishuk/codewiki/backend/internal/models"
)

func TestParseRepositoryInputRemote(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantRepo  string
	}{
		{
			name:      "https URL",
			input:     "https://github.com/langchain-ai/local-deep-researcher",
			wantOwner: "langchain-ai",
			wantRepo:  "local-deep-researcher",
		},
		{
			name:      "https URL with .git suffix",
			input:     "https://github.com/owner/repo.git",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "bare host/owner/repo",
			input:     "github.com/owner/repo",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "trailing slash",
			input:     "https://gitlab.com/owner/repo/",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "nested group URL",
			input:     "https://gitlab.example.com/group/subgroup/repo.git",
			wantOwner: "subgroup",
			wantRepo:  "repo",
		},
		{
			name:      "custom host without scheme",
			input:     "git.example.com/team/project.git",
			wantOwner: "team",
			wantRepo:  "project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseRepositoryInput(tt.input)
			if info == nil {
				t.Fatalf("ParseRepositoryInput(%q) returned nil", tt.input)
			}
			if info.Type != models.RepoTypeWeb {
				t.Errorf("Type mismatch: got %v, want %v", info.Type, models.RepoTypeWeb)
			}
			if info.Owner != tt.wantOwner {
				t.Errorf("Owner mismatch: got %v, want %v", info.Owner, tt.wantOwner)
			}
			if info.Repo != tt.wantRepo {
				t.Errorf("Repo mismatch: got %v, want %v", info.Repo, tt.wantRepo)
			}
		})
	}
}

func TestParseRepositoryInputLocal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRepo string
	}{
		{
			name:     "unix absolute path",
			input:    "/home/user/projects/myrepo",
			wantRepo: "myrepo",
		},
		{
			name:     "unix path with trailing slash",
			input:    "/srv/code/tool/",
			wantRepo: "tool",
		},
		{
			name:     "windows absolute path",
			input:    `C:\projects\myrepo`,
			wantRepo: "myrepo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseRepositoryInput(tt.input)
			if info == nil {
				t.Fatalf("ParseRepositoryInput(%q) returned nil", tt.input)
			}
			if info.Type != models.RepoTypeLocal {
				t.Errorf("Type mismatch: got %v, want %v", info.Type, models.RepoTypeLocal)
			}
			if info.Owner != "local" {
				t.Errorf("Owner mismatch: got %v, want local", info.Owner)
			}
			if info.Repo != tt.wantRepo {
				t.Errorf("Repo mismatch: got %v, want %v", info.Repo, tt.wantRepo)
			}
			if info.LocalPath != tt.input {
				t.Errorf("LocalPath mismatch: got %v, want %v", info.LocalPath, tt.input)
			}
		})
	}
}

func TestParseRepositoryInputUnsupported(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"garbage",
		"owner/repo",
		"just some words",
	}

	for _, input := range inputs {
		if info := ParseRepositoryInput(input); info != nil {
			t.Errorf("ParseRepositoryInput(%q) = %+v, want nil", input, info)
		}
	}
}
