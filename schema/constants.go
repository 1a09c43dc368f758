package schema

// Custom string types for type safety.
type (
	// Category represents the release-flow classification of a pull request.
	Category string

	// Area represents a code area derived from changed file paths.
	Area string

	// Outcome represents how a release cycle went.
	Outcome string

	// BackmergeStatus represents whether a hotfix made it back to develop.
	BackmergeStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All pull request categories. A PR belongs to exactly one of these;
// classification precedence is fixed in core.Classify.
const (
	CategoryReleaseTrain  Category = "release-train"
	CategoryPromotion     Category = "promotion"
	CategoryBackmerge     Category = "backmerge"
	CategoryHotfixStaging Category = "hotfix-staging"
	CategoryHotfixRelease Category = "hotfix-release"
	CategoryFeature       Category = "feature"
	CategoryNone          Category = "none"
)

// All code areas supported. Unmatched paths fall into AreaOther.
const (
	AreaFrontend    Area = "frontend"
	AreaBackend     Area = "backend"
	AreaContentTool Area = "content-tool"
	AreaOther       Area = "other"
)

// All cycle outcomes supported.
const (
	CleanOutcome  Outcome = "clean"
	HotfixOutcome Outcome = "hotfix"
)

// Backmerge states assigned during reconciliation. The zero value marks
// a PR the resolver has not seen.
const (
	BackmergeResolved BackmergeStatus = "resolved"
	BackmergeMissing  BackmergeStatus = "missing"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ReviewApproved is the GitHub review state that counts as an approval.
const ReviewApproved = "APPROVED"
