package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Upstream corpora: Ethereum improvement proposals and application-level
	// standards. Both are re-cloned in full every cycle.
	v.SetDefault("corpora", []map[string]interface{}{
		{
			"name":         "EIPs",
			"kind":         "eip",
			"source":       "https://github.com/ethereum/EIPs",
			"input_subdir": "EIPS",
		},
		{
			"name":         "ERCs",
			"kind":         "erc",
			"source":       "https://github.com/ethereum/ERCs",
			"input_subdir": "ERCS",
		},
	})

	// Summarizer defaults: builtin summarizer, original token tiers
	v.SetDefault("summarize.command", "")
	v.SetDefault("summarize.tiers", map[string]int{
		"short":  128,
		"medium": 256,
		"long":   512,
	})

	// Publish defaults
	v.SetDefault("publish.repo_path", ".")
	v.SetDefault("publish.branch", "main")
	v.SetDefault("publish.remote", "origin")
	v.SetDefault("publish.output_dir", "summaries")
	v.SetDefault("publish.commit_message", "Auto-update proposal summaries")
	v.SetDefault("publish.author_name", "propsum-bot")
	v.SetDefault("publish.author_email", "propsum-bot@users.noreply.github.com")

	// Schedule defaults: one cycle every 6 hours, 1s ticker resolution
	v.SetDefault("schedule.interval_seconds", 6*60*60)
	v.SetDefault("schedule.ticker_interval_seconds", 1)
	v.SetDefault("schedule.watch_paths", []string{})

	// Logging defaults
	v.SetDefault("logging.json", false)
}

// BindSensitiveEnvVars binds credential values to environment variables so
// tokens never have to live in config files. GITHUB_TOKEN is accepted as a
// fallback since that is what CI runners export.
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("publish.token", "PROPSUM_PUBLISH_TOKEN", "GITHUB_TOKEN")
}
