package command

// Failure records a command that did not apply.
type Failure struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	RetryCount int    `json:"retry_count"`
	RolledBack bool   `json:"rolled_back"`
	// Skipped marks validation failures and conflicts, which are never retried.
	Skipped bool `json:"skipped,omitempty"`
}
