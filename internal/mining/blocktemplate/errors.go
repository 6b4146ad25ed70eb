package blocktemplate

import "github.com/pkg/errors"

// BuildFailureKind tags why Build or BuildPoA returned no template, per
// spec.md §7's TemplateBuildFailed subkinds.
type BuildFailureKind int

// BuildFailureKind values.
const (
	KindNoAddress BuildFailureKind = iota
	KindNoStake
	KindCommitmentFailed
	KindSignatureFailed
	KindVerifyFailed
	KindReadBlockFailed
)

func (k BuildFailureKind) String() string {
	switch k {
	case KindNoAddress:
		return "NoAddress"
	case KindNoStake:
		return "NoStake"
	case KindCommitmentFailed:
		return "CommitmentFailed"
	case KindSignatureFailed:
		return "SignatureFailed"
	case KindVerifyFailed:
		return "VerifyFailed"
	case KindReadBlockFailed:
		return "ReadBlockFailed"
	default:
		return "Unknown"
	}
}

// BuildError is the TemplateBuildFailed error kind of spec.md §7: a build
// step failed, so the worker gets no template and loops. Callers should
// use errors.As to recover the Kind.
type BuildError struct {
	Kind BuildFailureKind
	err  error
}

func (e *BuildError) Error() string {
	if e.err != nil {
		return e.Kind.String() + ": " + e.err.Error()
	}
	return e.Kind.String()
}

func (e *BuildError) Unwrap() error { return e.err }

func newBuildError(kind BuildFailureKind, cause error) *BuildError {
	return &BuildError{Kind: kind, err: cause}
}

// ErrNoTip is returned when the chain view reports no usable tip at all.
var ErrNoTip = errors.New("no chain tip")

// ErrStaleTip is returned by BuildPoA when the tip has not yet reached
// StartPoABlock (spec.md §4.4's pre-condition) — the chain hasn't advanced
// far enough for a PoA template to make sense yet.
var ErrStaleTip = errors.New("tip below start-PoA height")

// ErrEmptyAuditList is returned by BuildPoA when GetListOfPoSInfo produces
// no summaries at all.
var ErrEmptyAuditList = errors.New("PoA audit list is empty")
