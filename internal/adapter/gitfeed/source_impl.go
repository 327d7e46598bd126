package gitfeed

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/user/blacklist-service/internal/entity"
	"github.com/user/blacklist-service/internal/repository"
)

// Source implements repository.FeedSource for a feed published as a CSV
// file inside a git repository: refresh is a fast-forward pull, the
// snapshot is one full read of the file.
type Source struct {
	repoURL  string
	localDir string
	feedFile string
}

// NewSource creates a feed source for the given repository URL, local
// checkout directory and feed file name within the checkout.
func NewSource(repoURL, localDir, feedFile string) *Source {
	return &Source{
		repoURL:  repoURL,
		localDir: localDir,
		feedFile: feedFile,
	}
}

// EnsureCloned clones the feed repository shallowly if the local checkout
// does not exist yet. Called once at startup, before the poll loop.
func (s *Source) EnsureCloned(ctx context.Context) error {
	if _, err := os.Stat(s.localDir); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.localDir), 0o755); err != nil {
		return fmt.Errorf("create checkout parent: %w", err)
	}
	return runGit(ctx, "clone", "--depth", "1", s.repoURL, s.localDir)
}

// Refresh fast-forwards the local checkout to the upstream feed state.
func (s *Source) Refresh(ctx context.Context) error {
	if err := runGit(ctx, "-C", s.localDir, "pull", "--ff-only"); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrSourceUnavailable, err)
	}
	return nil
}

// Snapshot reads the feed file into rows aligned to its header schema.
func (s *Source) Snapshot(ctx context.Context) (*entity.Snapshot, error) {
	path := filepath.Join(s.localDir, s.feedFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrSourceUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", repository.ErrSourceUnavailable, s.feedFile, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: feed file %s has no header", repository.ErrSourceUnavailable, s.feedFile)
	}

	return &entity.Snapshot{Columns: records[0], Rows: records[1:]}, nil
}

func runGit(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %v: %s",
			strings.Join(args, " "), err, strings.TrimSpace(out.String()))
	}
	return nil
}
