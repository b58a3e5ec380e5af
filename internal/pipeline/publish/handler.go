// internal/pipeline/publish/handler.go
package publish

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	pipeerrors "ideas-pipeline/internal/common/errors"
	"ideas-pipeline/internal/common/logger"
)

type Handler struct {
	config *Config
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.With(map[string]interface{}{
			"stage": "publish",
		}),
		now: time.Now,
	}
}

// Publish stages the data directory, commits it as the bot identity and
// pushes to the configured remote. A workspace that is not a git
// repository or has no data changes is skipped cleanly; every real
// failure is a non-fatal PUBLISH_FAILED.
func (h *Handler) Publish(ctx context.Context, dataDir string) error {
	repo, err := git.PlainOpen(h.config.RepoPath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		h.logger.Warn("not in a git repository, skipping publish", map[string]interface{}{
			"repoPath": h.config.RepoPath,
		})
		return nil
	}
	if err != nil {
		return pipeerrors.NewPublishFailedError(fmt.Errorf("open repository: %w", err))
	}

	wt, err := repo.Worktree()
	if err != nil {
		return pipeerrors.NewPublishFailedError(fmt.Errorf("open worktree: %w", err))
	}

	rel := h.relDataPath(dataDir)

	status, err := wt.Status()
	if err != nil {
		return pipeerrors.NewPublishFailedError(fmt.Errorf("worktree status: %w", err))
	}
	if !hasChangesUnder(status, rel) {
		h.logger.Info("no changes in data directory to commit", map[string]interface{}{
			"dataDir": rel,
		})
		return nil
	}

	if _, err := wt.Add(rel); err != nil {
		return pipeerrors.NewPublishFailedError(fmt.Errorf("stage %s: %w", rel, err))
	}

	message := fmt.Sprintf("Daily data update - %s", h.now().UTC().Format("2006-01-02"))
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  h.config.AuthorName,
			Email: h.config.AuthorEmail,
			When:  h.now(),
		},
	})
	if err != nil {
		return pipeerrors.NewPublishFailedError(fmt.Errorf("commit: %w", err))
	}

	h.logger.Info("committed data update", map[string]interface{}{
		"commit":  hash.String(),
		"message": message,
	})

	pushOpts := &git.PushOptions{RemoteName: h.config.RemoteName}
	if h.config.Token != "" {
		// Token-as-username, matching token-embedded https remote URLs.
		pushOpts.Auth = &githttp.BasicAuth{Username: h.config.Token}
	}

	if err := repo.PushContext(ctx, pushOpts); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			h.logger.Info("remote already up to date", nil)
			return nil
		}
		return pipeerrors.NewPublishFailedError(fmt.Errorf("push: %w", err))
	}

	h.logger.Info("pushed data update", map[string]interface{}{
		"remote": h.config.RemoteName,
	})
	return nil
}

// relDataPath resolves dataDir to a repo-relative slash path.
func (h *Handler) relDataPath(dataDir string) string {
	rel, err := filepath.Rel(h.config.RepoPath, dataDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = dataDir
	}
	return filepath.ToSlash(rel)
}

// hasChangesUnder reports whether any worktree or staged change touches
// the given directory.
func hasChangesUnder(status git.Status, dir string) bool {
	prefix := dir + "/"
	for path, fileStatus := range status {
		if path != dir && !strings.HasPrefix(path, prefix) {
			continue
		}
		if fileStatus.Worktree != git.Unmodified || fileStatus.Staging != git.Unmodified {
			return true
		}
	}
	return false
}
