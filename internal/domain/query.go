package domain

// CredentialSource records where the API key was found.
type CredentialSource string

const (
	CredentialNone        CredentialSource = "none"
	CredentialFlag        CredentialSource = "flag"
	CredentialEnvironment CredentialSource = "environment"
	CredentialConfig      CredentialSource = "config"
)

// ExecutionResult wraps details from the command executor.
type ExecutionResult struct {
	Ran        bool
	ExitCode   int
	DurationMS int64
	Err        error
}
