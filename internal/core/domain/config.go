package domain

// Config is the resolved ship configuration.
type Config struct {
	// Root is the repository root the configuration applies to.
	Root string
	// PackageManager overrides detection when set.
	PackageManager PackageManager
	// Build is the shared build command run once before publishing.
	Build       []string
	SkipBuild   bool
	Concurrency int
	Retry       RetryPolicy
	// Releases is a pre-computed release list that bypasses changesets.
	Releases []Release
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig(root string) *Config {
	return &Config{
		Root:        root,
		Concurrency: 1,
		Retry:       DefaultRetryPolicy(),
	}
}
