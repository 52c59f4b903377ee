package repo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dpolishuk/codewiki/backend/internal/models"
)

// README filenames probed in order
var readmeNames = []string{"README.md", "README.MD", "readme.md", "README", "README.rst", "README.txt"}

// LocalProvider enumerates a repository on the local filesystem. Git
// checkouts are listed through git ls-files so ignored files stay out;
// plain directories fall back to a walk that skips the usual noise.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (p *LocalProvider) Fetch(ctx context.Context, info *models.RepositoryInfo) (*Contents, error) {
	path := info.LocalPath
	if path == "" {
		return nil, fmt.Errorf("local repository path is empty")
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access local repository: %w", err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("local repository path is not a directory: %s", path)
	}

	var files []string
	if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		files, err = gitListFiles(ctx, path)
		if err != nil {
			return nil, err
		}
	} else {
		files, err = walkFiles(path)
		if err != nil {
			return nil, err
		}
	}

	return &Contents{
		FileList: files,
		Readme:   readReadme(path),
	}, nil
}

// gitListFiles returns all tracked files in the repository
func gitListFiles(ctx context.Context, repoPath string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files")
	cmd.Dir = repoPath

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func walkFiles(dirPath string) ([]string, error) {
	var files []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories and common non-code directories
		if info.IsDir() {
			name := info.Name()
			if name == ".git" || name == "node_modules" || name == "vendor" ||
				name == "__pycache__" || name == ".venv" || name == "dist" ||
				name == "build" || name == "target" {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, _ := filepath.Rel(dirPath, path)
		files = append(files, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// readReadme returns the first README found, or an empty string
func readReadme(dirPath string) string {
	for _, name := range readmeNames {
		content, err := os.ReadFile(filepath.Join(dirPath, name))
		if err == nil {
			return string(content)
		}
	}
	return ""
}
