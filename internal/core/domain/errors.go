package domain

import "go.trai.ch/zerr"

// Configuration errors. These are never retried.
var (
	// ErrUnknownTargetShorthand is returned when a publish target names a preset that does not exist.
	ErrUnknownTargetShorthand = zerr.New("unknown target shorthand")

	// ErrInvalidManifest is returned when a package manifest cannot be parsed or is inconsistent.
	ErrInvalidManifest = zerr.New("invalid package manifest")

	// ErrInvalidTarget is returned when a fully specified target carries an unsupported value.
	ErrInvalidTarget = zerr.New("invalid publish target")

	// ErrInvalidConfig is returned when the ship configuration file is malformed.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrInvalidVersion is returned when a release version is not valid semver.
	ErrInvalidVersion = zerr.New("invalid release version")

	// ErrInvalidRelease is returned when a release entry cannot be parsed.
	ErrInvalidRelease = zerr.New("invalid release entry")

	// ErrUnknownPackage is returned when the release set names a package missing from the workspace.
	ErrUnknownPackage = zerr.New("package not found in workspace")

	// ErrDuplicatePackage is returned when two workspace packages share a name.
	ErrDuplicatePackage = zerr.New("duplicate package name in workspace")

	// ErrUnsupportedPackageManager is returned for package managers ship cannot drive.
	ErrUnsupportedPackageManager = zerr.New("unsupported package manager")
)

// Pre-condition errors. Any of these aborts the run before a publish call is made.
var (
	// ErrRegistryUnreachable is returned when one or more registries cannot be contacted.
	ErrRegistryUnreachable = zerr.New("registry unreachable")

	// ErrBuildFailed is returned when the shared build command fails.
	ErrBuildFailed = zerr.New("build failed")

	// ErrVersionConflict is returned when a published version differs from the local artifact.
	ErrVersionConflict = zerr.New("version already published with different content")

	// ErrPreValidationFailed is returned when the pre-flight checks for a target cannot complete.
	ErrPreValidationFailed = zerr.New("pre-validation failed")
)

// Registry, packaging and process errors.
var (
	// ErrRegistryAuth is returned when a registry rejects the request with 401 or 403.
	ErrRegistryAuth = zerr.New("registry authentication failed")

	// ErrRegistryRequest is returned for registry responses that are neither success, not-found nor auth failures.
	ErrRegistryRequest = zerr.New("registry request failed")

	// ErrPackFailed is returned when the package manager's pack command fails.
	ErrPackFailed = zerr.New("pack failed")

	// ErrArtifactNotFound is returned when a pack run produced no usable tarball.
	ErrArtifactNotFound = zerr.New("packed artifact not found")

	// ErrCommandInvocation is returned when a command could not be started at all.
	ErrCommandInvocation = zerr.New("command invocation failed")

	// ErrReleaseSource is returned when the release list cannot be obtained.
	ErrReleaseSource = zerr.New("release source failed")

	// ErrRunFailed is returned by the application when a run did not fully succeed.
	ErrRunFailed = zerr.New("publish run failed")
)
