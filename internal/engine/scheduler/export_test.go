package scheduler

// GetPackageStatusMap returns a copy of the package status map of the last run.
// This is exported for testing purposes only.
func (s *Scheduler) GetPackageStatusMap() map[string]PackageStatus {
	return s.status.snapshot()
}
