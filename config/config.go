// Package config holds the propsum configuration: which corpora to sync,
// how to summarize them, and where the derived artifacts get published.
package config

import "time"

// Config represents the full propsum configuration
type Config struct {
	Corpora   []CorpusConfig  `mapstructure:"corpora"`
	Summarize SummarizeConfig `mapstructure:"summarize"`
	Publish   PublishConfig   `mapstructure:"publish"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// CorpusConfig identifies one upstream proposal corpus. Each corpus is
// re-acquired in full every cycle; nothing is fetched incrementally.
type CorpusConfig struct {
	Name        string `mapstructure:"name"`         // human label, also used for temp dir naming
	Kind        string `mapstructure:"kind"`         // proposal type tag: "eip" or "erc"
	Source      string `mapstructure:"source"`       // git URL, archive URL, or local path
	InputSubdir string `mapstructure:"input_subdir"` // directory inside the corpus holding proposal files
}

// SummarizeConfig configures the summarizer invoked once per corpus.
type SummarizeConfig struct {
	// Command, when set, runs an external summarizer instead of the
	// builtin one. It is shell-quoted and invoked as:
	//   <command...> <kind> <input_dir> <output_dir>
	Command string `mapstructure:"command"`

	// Tiers maps tier name to token budget. Empty means the builtin
	// defaults (short=128, medium=256, long=512).
	Tiers map[string]int `mapstructure:"tiers"`
}

// PublishConfig configures the commit-and-push step against the target
// repository holding the summary artifacts.
type PublishConfig struct {
	RepoPath      string `mapstructure:"repo_path"`      // checkout of the target repository
	Branch        string `mapstructure:"branch"`         // branch to commit and push to
	Remote        string `mapstructure:"remote"`         // remote name
	OutputDir     string `mapstructure:"output_dir"`     // artifact directory, relative to repo root
	CommitMessage string `mapstructure:"commit_message"` // fixed message for automation commits
	AuthorName    string `mapstructure:"author_name"`    // automation identity
	AuthorEmail   string `mapstructure:"author_email"`
	Token         string `mapstructure:"token"` // bearer credential for push; env-only in practice
}

// ScheduleConfig configures the daemon's trigger surface.
type ScheduleConfig struct {
	IntervalSeconds       int      `mapstructure:"interval_seconds"`        // time between scheduled cycles
	TickerIntervalSeconds int      `mapstructure:"ticker_interval_seconds"` // how often the ticker wakes up
	WatchPaths            []string `mapstructure:"watch_paths"`             // paths whose change triggers a cycle
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	JSON bool `mapstructure:"json"` // structured JSON instead of console output
}

// Interval returns the configured cycle interval as a duration.
func (s ScheduleConfig) Interval() time.Duration {
	return time.Duration(s.IntervalSeconds) * time.Second
}

// TickerInterval returns the ticker wake-up interval as a duration.
func (s ScheduleConfig) TickerInterval() time.Duration {
	return time.Duration(s.TickerIntervalSeconds) * time.Second
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
