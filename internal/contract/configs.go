package contract

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ehuang2/releaseflow/schema"
)

// Default values for configuration.
const (
	DefaultLookbackDays = 30
	TrendLookbackDays   = 90
	DefaultTrendCycles  = 4
	MaxTrendCycles      = 12
	DefaultCycleDays    = 7
	DefaultLargeLines   = 500
	DefaultQuickMinutes = 5
	PageSize            = 100
)

// CacheGranularity defines the time granularity for caching fetch windows.
// This ensures consistent cache key generation across the application and tests.
const CacheGranularity = time.Hour

// Default guarded branch names for the release flow.
const (
	DefaultDevelopBranch = "develop"
	DefaultStagingBranch = "staging"
	DefaultReleaseBranch = "release"
)

// AreaRule maps a path prefix to a code area. Rules are evaluated in
// order; the first matching prefix wins and unmatched paths fall
// through to schema.AreaOther.
type AreaRule struct {
	Prefix string
	Area   schema.Area
}

// DefaultAreaRules returns the built-in path-prefix to area mapping.
func DefaultAreaRules() []AreaRule {
	return []AreaRule{
		{Prefix: "frontend/", Area: schema.AreaFrontend},
		{Prefix: "backend/", Area: schema.AreaBackend},
		{Prefix: "content-tool/", Area: schema.AreaContentTool},
	}
}

// Config holds the runtime configuration for report generation.
// This struct remains the "final, validated" config.
type Config struct {
	RepoSlug string // "owner/repo" on the hosting platform
	RepoPath string // Local clone used for ancestry checks

	DevelopBranch string
	StagingBranch string
	ReleaseBranch string

	LookbackDays int // How far back to search for release trains
	TrendCycles  int // Max entries in the trend table

	LargeLines   int     // Changed-line threshold for the large-PR flag
	QuickMinutes float64 // Approval-latency threshold for the quick-approval flag

	AreaRules []AreaRule

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.AreaRules != nil {
		clone.AreaRules = make([]AreaRule, len(c.AreaRules))
		copy(clone.AreaRules, c.AreaRules)
	}
	return &clone
}

// GuardedBranches returns the branch names that feature heads must not
// match; a PR into develop whose head is one of these is a backmerge,
// not a feature.
func (c *Config) GuardedBranches() []string {
	return []string{c.StagingBranch, c.ReleaseBranch}
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Repo           string  `mapstructure:"repo"`
	Days           int     `mapstructure:"days"`
	TrendCycles    int     `mapstructure:"trend-cycles"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Width          int     `mapstructure:"width"`
	Color          string  `mapstructure:"color"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`
	LargeLines     int     `mapstructure:"large-lines"`
	QuickMinutes   float64 `mapstructure:"quick-minutes"`

	// --- Fields from the config file only ---
	Branches BranchesRawInput    `mapstructure:"branches"`
	Areas    map[string][]string `mapstructure:"areas"`
}

// BranchesRawInput holds branch name overrides from the YAML config file.
type BranchesRawInput struct {
	Develop string `mapstructure:"develop"`
	Staging string `mapstructure:"staging"`
	Release string `mapstructure:"release"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. Repository identification failures
// are fatal here: every downstream fetch needs the slug.
func ProcessAndValidate(ctx context.Context, cfg *Config, locator RepoLocator, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processBranches(cfg, input); err != nil {
		return err
	}
	if err := processAreaRules(cfg, input); err != nil {
		return err
	}
	if err := resolveRepoSlug(ctx, cfg, locator, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs checks scalar options and copies them over.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", input.Days)
	}
	cfg.LookbackDays = input.Days

	if input.TrendCycles < 1 || input.TrendCycles > MaxTrendCycles {
		return fmt.Errorf("trend-cycles must be between 1 and %d, got %d", MaxTrendCycles, input.TrendCycles)
	}
	cfg.TrendCycles = input.TrendCycles

	if input.LargeLines <= 0 {
		return fmt.Errorf("large-lines must be positive, got %d", input.LargeLines)
	}
	cfg.LargeLines = input.LargeLines

	if input.QuickMinutes <= 0 {
		return fmt.Errorf("quick-minutes must be positive, got %v", input.QuickMinutes)
	}
	cfg.QuickMinutes = input.QuickMinutes

	output := schema.OutputMode(input.Output)
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output mode %q. Must be text or json", input.Output)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative, got %d", input.Width)
	}
	cfg.Width = input.Width
	cfg.UseColors = parseBoolish(input.Color, true)

	backend := schema.DatabaseBackend(input.CacheBackend)
	if _, ok := schema.ValidCacheBackends[backend]; !ok {
		return fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, or none", input.CacheBackend)
	}
	if err := ValidateDatabaseConnectionString(backend, input.CacheDBConnect); err != nil {
		return err
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect

	cfg.RepoPath = input.RepoPathStr
	return nil
}

// processBranches applies branch name overrides with defaults.
func processBranches(cfg *Config, input *ConfigRawInput) error {
	cfg.DevelopBranch = firstNonEmpty(input.Branches.Develop, DefaultDevelopBranch)
	cfg.StagingBranch = firstNonEmpty(input.Branches.Staging, DefaultStagingBranch)
	cfg.ReleaseBranch = firstNonEmpty(input.Branches.Release, DefaultReleaseBranch)

	seen := map[string]struct{}{}
	for _, b := range []string{cfg.DevelopBranch, cfg.StagingBranch, cfg.ReleaseBranch} {
		if b == "" {
			return fmt.Errorf("branch names cannot be empty")
		}
		if _, dup := seen[b]; dup {
			return fmt.Errorf("branch name %q is used for more than one role", b)
		}
		seen[b] = struct{}{}
	}
	return nil
}

// processAreaRules builds the ordered prefix rules from the config file
// map, or falls back to the defaults. Rules are sorted longest-prefix
// first so nested prefixes stay deterministic.
func processAreaRules(cfg *Config, input *ConfigRawInput) error {
	if len(input.Areas) == 0 {
		cfg.AreaRules = DefaultAreaRules()
		return nil
	}

	var rules []AreaRule
	for areaName, prefixes := range input.Areas {
		area := schema.Area(areaName)
		switch area {
		case schema.AreaFrontend, schema.AreaBackend, schema.AreaContentTool, schema.AreaOther:
		default:
			return fmt.Errorf("unknown area %q in config. Must be frontend, backend, content-tool, or other", areaName)
		}
		for _, p := range prefixes {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			rules = append(rules, AreaRule{Prefix: p, Area: area})
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].Prefix) > len(rules[j].Prefix)
	})
	cfg.AreaRules = rules
	return nil
}

// resolveRepoSlug picks the explicit --repo value or asks the locator.
func resolveRepoSlug(ctx context.Context, cfg *Config, locator RepoLocator, input *ConfigRawInput) error {
	if input.Repo != "" {
		if !strings.Contains(input.Repo, "/") {
			return fmt.Errorf("repo must be in owner/name form, got %q", input.Repo)
		}
		cfg.RepoSlug = input.Repo
		return nil
	}

	slug, err := locator.Identify(ctx)
	if err != nil {
		return fmt.Errorf("could not determine repository: %w. Pass --repo owner/name or run inside a clone with an origin remote", err)
	}
	cfg.RepoSlug = slug
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("invalid MySQL connection string. Expected format: user:password@tcp(host:port)/dbname")
		}
		return nil
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres://") {
			return fmt.Errorf("invalid PostgreSQL connection string. Expected key=value pairs or a postgres:// URL")
		}
		return nil
	default:
		return fmt.Errorf("unsupported cache backend: %s", backend)
	}
}

// parseBoolish interprets yes/no style flag values.
func parseBoolish(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true
	case "no", "false", "0", "off":
		return false
	default:
		return fallback
	}
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
