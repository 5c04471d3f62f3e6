package domain

// TargetResult is the outcome of publishing one package to one target.
type TargetResult struct {
	Target                 Target   `json:"target"`
	Success                bool     `json:"success"`
	AlreadyPublished       bool     `json:"alreadyPublished,omitempty"`
	AlreadyPublishedReason Verdict  `json:"alreadyPublishedReason,omitempty"`
	Error                  string   `json:"error,omitempty"`
	Category               Category `json:"category,omitempty"`
	ExitCode               int      `json:"exitCode,omitempty"`
	Stdout                 string   `json:"stdout,omitempty"`
	Stderr                 string   `json:"stderr,omitempty"`
	RegistryURL            string   `json:"registryUrl,omitempty"`
	AttestationURL         string   `json:"attestationUrl,omitempty"`
	// Attempts is the number of times the publish command was invoked.
	Attempts int `json:"attempts,omitempty"`
}

// Succeeded reports whether the target counts as successful. A "different" verdict is
// always a failure, whatever Success says.
func (r TargetResult) Succeeded() bool {
	return r.Success && r.AlreadyPublishedReason != VerdictDifferent
}

// AlreadyPublishedResult records that target already holds the version. Identical and
// unknown verdicts are no-ops and succeed; a different verdict fails.
func AlreadyPublishedResult(target Target, verdict Verdict) TargetResult {
	res := TargetResult{
		Target:                 target,
		AlreadyPublished:       true,
		AlreadyPublishedReason: verdict,
		Category:               CategoryAlreadyPublished,
		Success:                verdict != VerdictDifferent,
	}
	if verdict == VerdictDifferent {
		res.Error = ErrVersionConflict.Error()
	}
	return res
}

// PackagePublishResult groups the target results of one package.
type PackagePublishResult struct {
	Name    string         `json:"name"`
	Version string         `json:"version"`
	Targets []TargetResult `json:"targets"`
}

// Succeeded reports whether every target of the package succeeded.
func (p PackagePublishResult) Succeeded() bool {
	for _, t := range p.Targets {
		if !t.Succeeded() {
			return false
		}
	}
	return true
}

// RunResult is the outcome of a whole release run.
type RunResult struct {
	RunID              string                 `json:"runId,omitempty"`
	Success            bool                   `json:"success"`
	DryRun             bool                   `json:"dryRun,omitempty"`
	Packages           []PackagePublishResult `json:"packages"`
	TotalPackages      int                    `json:"totalPackages"`
	SuccessfulPackages int                    `json:"successfulPackages"`
	TotalTargets       int                    `json:"totalTargets"`
	SuccessfulTargets  int                    `json:"successfulTargets"`
	BuildError         string                 `json:"buildError,omitempty"`
	BuildOutput        string                 `json:"buildOutput,omitempty"`
	PreValidationError string                 `json:"preValidationError,omitempty"`
	Warnings           []string               `json:"warnings,omitempty"`
}

// Aggregate folds package results into a run result. The run succeeds iff every
// target succeeded; all counts are derived from the package results.
func Aggregate(packages []PackagePublishResult) RunResult {
	if packages == nil {
		packages = []PackagePublishResult{}
	}

	res := RunResult{
		Success:       true,
		Packages:      packages,
		TotalPackages: len(packages),
	}
	for _, pkg := range packages {
		if pkg.Succeeded() {
			res.SuccessfulPackages++
		}
		for _, target := range pkg.Targets {
			res.TotalTargets++
			if target.Succeeded() {
				res.SuccessfulTargets++
			} else {
				res.Success = false
			}
		}
	}
	return res
}

// BuildFailed returns the terminal result of a run whose shared build failed.
// Nothing was packed or published.
func BuildFailed(buildErr, output string) RunResult {
	res := Aggregate(nil)
	res.Success = false
	res.BuildError = buildErr
	res.BuildOutput = output
	return res
}

// PreValidationFailed returns the terminal result of a run aborted before any publish
// call. partial carries the target results established before the abort.
func PreValidationFailed(err error, partial []PackagePublishResult) RunResult {
	res := Aggregate(partial)
	res.Success = false
	if err != nil {
		res.PreValidationError = err.Error()
	}
	return res
}
