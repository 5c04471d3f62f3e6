package domain

import (
	"regexp"
	"strings"
)

// Verdict is the outcome of comparing a local artifact against the registry.
type Verdict string

const (
	// VerdictClear means the version is not published yet.
	VerdictClear Verdict = "clear"
	// VerdictIdentical means the version is published with the same content; publishing is a no-op.
	VerdictIdentical Verdict = "identical"
	// VerdictDifferent means the version is published with different content; the run must fail.
	VerdictDifferent Verdict = "different"
	// VerdictUnknown means the version is published but the content could not be compared.
	// It is treated as success with a warning.
	VerdictUnknown Verdict = "unknown"
)

// Published reports whether the verdict says the version already exists on the registry.
func (v Verdict) Published() bool {
	return v == VerdictIdentical || v == VerdictDifferent || v == VerdictUnknown
}

// Category classifies the outcome of a publish command.
type Category string

const (
	CategoryNone             Category = "none"
	CategoryAlreadyPublished Category = "already_published"
	CategoryAuth             Category = "auth"
	CategoryNetwork          Category = "network"
	CategoryInvocation       Category = "invocation"
	CategoryUnknown          Category = "unknown"
)

// Transient reports whether the category is worth retrying.
func (c Category) Transient() bool {
	return c == CategoryNetwork
}

var (
	// npm and pnpm phrase the over-publish rejection in a few ways across versions.
	// GitHub Packages answers with a 409.
	alreadyPublishedSignatures = []string{
		"cannot publish over the previously published version",
		"cannot publish over previously published version",
		"cannot publish over existing version",
		"you cannot publish over",
		"epublishconflict",
		"code e409",
		"409 conflict",
	}

	// The jsr CLI reports the API error code or a sentence naming the version.
	jsrAlreadyPublishedSignatures = []string{
		"versionalreadyexists",
		"version already exists",
		"version already published",
	}
	jsrAlreadyPublishedPattern = regexp.MustCompile(`\bversion \S+ (?:of \S+ )?(?:already exists|is already published)`)

	authSignatures = []string{
		"eneedauth",
		"e401",
		"e403",
		"eotp",
		"401 unauthorized",
		"403 forbidden",
		"unauthorized",
		"authentication required",
		"not logged in",
		"permission denied",
	}

	networkSignatures = []string{
		"econnreset",
		"etimedout",
		"esockettimedout",
		"eai_again",
		"econnrefused",
		"socket hang up",
		"network timeout",
		"request timed out",
	}
)

// Classify maps the exit code and captured output of an npm-compatible publish
// command to a category.
func Classify(exitCode int, stdout, stderr string) Category {
	return ClassifyFor(ProtocolNPM, exitCode, stdout, stderr)
}

// ClassifyFor is Classify with the already-published wording of protocol.
func ClassifyFor(protocol Protocol, exitCode int, stdout, stderr string) Category {
	if exitCode == 0 {
		return CategoryNone
	}

	output := strings.ToLower(stderr + "\n" + stdout)
	switch {
	case containsAny(output, alreadyPublishedSignatures):
		return CategoryAlreadyPublished
	case protocol == ProtocolJSR && jsrAlreadyPublished(output):
		return CategoryAlreadyPublished
	case containsAny(output, authSignatures):
		return CategoryAuth
	case containsAny(output, networkSignatures):
		return CategoryNetwork
	default:
		return CategoryUnknown
	}
}

func jsrAlreadyPublished(output string) bool {
	return containsAny(output, jsrAlreadyPublishedSignatures) || jsrAlreadyPublishedPattern.MatchString(output)
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
