package shared

// Postgres advisory lock keys for process-wide critical sections.
const (
	// BootstrapLockKey serialises first-admin creation across API replicas.
	BootstrapLockKey int64 = 0x5345_4C54_4552_0001
)
