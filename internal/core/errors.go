package core

import "fmt"

// ConfigError reports missing or invalid configuration, such as an
// unconfigured API key or an unknown provider. Terminal for the call.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// NewNoAPIKeyError builds the ConfigError raised when no API key can be
// resolved for a provider, naming the provider so the caller knows which
// key to configure.
func NewNoAPIKeyError(provider ProviderID) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf("API key not configured for %s. Set the provider API key and save settings first", provider)}
}

// APIError reports a failed provider call: transport error, non-2xx status,
// or a response body missing the expected text field. Never retried.
type APIError struct {
	Provider ProviderID
	Reason   string
	Err      error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s API request failed: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s API request failed: %s", e.Provider, e.Reason)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a rejected document-store write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
