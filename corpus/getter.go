package corpus

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/propsum/propsum/errors"
)

// GetterAcquirer acquires corpora through hashicorp/go-getter, covering
// sources that are not plain git URLs: archives (zip, tar.gz) with
// auto-extraction, local directories, and GitHub shorthand.
type GetterAcquirer struct {
	logger *zap.SugaredLogger
}

// NewGetterAcquirer creates a go-getter based corpus acquirer.
func NewGetterAcquirer(logger *zap.SugaredLogger) *GetterAcquirer {
	return &GetterAcquirer{logger: logger}
}

// Acquire fetches the source into a fresh temporary directory.
func (a *GetterAcquirer) Acquire(ctx context.Context, src Source) (*Snapshot, error) {
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(src.URL, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrAcquireFailed,
			"detecting source type for %s: %v", src.URL, err)
	}

	a.logger.Debugw("Detected corpus source",
		"corpus", src.Name,
		"input", src.URL,
		"detected", detected)

	tempDir, err := os.MkdirTemp("", fmt.Sprintf("propsum-%s-*", sanitizeName(src.Name)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}

	// go-getter requires a non-existent destination for directory fetches
	dst := filepath.Join(tempDir, "corpus")

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Mode:    getter.ClientModeDir,
		Getters: getter.Getters,
	}

	a.logger.Infow("Fetching corpus",
		"corpus", src.Name,
		"source", src.URL,
		"destination", dst)

	if err := client.Get(); err != nil {
		os.RemoveAll(tempDir)
		return nil, errors.Wrapf(errors.ErrAcquireFailed,
			"fetching %s from %s: %v", src.Name, src.URL, err)
	}

	inputDir, err := resolveInputDir(dst, src)
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}

	return &Snapshot{
		Source:   src,
		Dir:      dst,
		InputDir: inputDir,
		cleanup: func() {
			os.RemoveAll(tempDir)
		},
	}, nil
}

// NewAcquirer picks the acquirer for a source: git URLs and local git
// repositories use the full-clone git acquirer, everything else goes
// through go-getter.
func NewAcquirer(src Source, logger *zap.SugaredLogger) Acquirer {
	if isGitSource(src.URL) {
		return NewGitAcquirer(logger)
	}
	return NewGetterAcquirer(logger)
}

// isGitSource reports whether the URL names a git repository rather than
// an archive or plain directory.
func isGitSource(input string) bool {
	if strings.HasSuffix(input, ".git") || strings.HasPrefix(input, "git@") || strings.HasPrefix(input, "git://") {
		return true
	}

	if parsed, err := url.Parse(input); err == nil {
		switch parsed.Scheme {
		case "http", "https":
			host := parsed.Host
			if host == "github.com" || host == "gitlab.com" {
				// Hosted repo URLs without an archive extension
				return !strings.Contains(parsed.Path, ".tar") && !strings.HasSuffix(parsed.Path, ".zip")
			}
			return false
		case "", "file":
			// Local path: git if there is a repository at it
			path := input
			if parsed.Scheme == "file" {
				path = parsed.Path
			}
			return IsGitRepository(path)
		}
	}

	return false
}

// sanitizeName makes a corpus name safe for temp directory naming.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(
		":", "-",
		"@", "-",
		"/", "-",
		" ", "-",
	)
	name = replacer.Replace(name)

	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		name = "corpus"
	}

	return name
}
