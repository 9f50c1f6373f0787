package types

type EngineMode string

const (
	EngineModeResolve EngineMode = "resolve"
	EngineModePublish EngineMode = "publish"
)

type ResolverKind string

const (
	ResolverKindFile ResolverKind = "file"
	ResolverKindHTTP ResolverKind = "http"
)

// VersionScheme selects how versions hosted by a resolver are ordered and
// how dependency version constraints are matched against them.
type VersionScheme string

const (
	VersionSchemeSemver VersionScheme = "semver"
	VersionSchemeDebian VersionScheme = "debian"
	VersionSchemePEP440 VersionScheme = "pep440"
)

type ChecksumAlgorithm string

const (
	ChecksumSHA1   ChecksumAlgorithm = "sha1"
	ChecksumSHA256 ChecksumAlgorithm = "sha256"
	ChecksumMD5    ChecksumAlgorithm = "md5"
)

type ConstraintOp string

const (
	ConstraintOpNone   ConstraintOp = ""
	ConstraintOpEq     ConstraintOp = "="
	ConstraintOpEq2    ConstraintOp = "=="
	ConstraintOpNe     ConstraintOp = "!="
	ConstraintOpCompat ConstraintOp = "~="
	ConstraintOpGte    ConstraintOp = ">="
	ConstraintOpLte    ConstraintOp = "<="
	ConstraintOpGt     ConstraintOp = ">"
	ConstraintOpLt     ConstraintOp = "<"
)
