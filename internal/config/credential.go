package config

import (
	"fmt"
	"os"
	"strings"
)

// SecretPrompter asks the player for a value without echoing it.
type SecretPrompter interface {
	ReadSecret(prompt string) (string, error)
}

// ResolveCredential sets cfg.APIKey from the provider's environment variable,
// or from prompter when the variable is empty. prompter may be nil.
func ResolveCredential(cfg *Config, prompter SecretPrompter) error {
	d := DefaultsFor(cfg.Provider)

	key := strings.TrimSpace(os.Getenv(d.KeyEnvVar))
	if key == "" && prompter != nil {
		input, err := prompter.ReadSecret(fmt.Sprintf("Please enter your %s API Key: ", d.DisplayName))
		if err == nil {
			key = strings.TrimSpace(input)
		}
	}

	if key == "" {
		return fmt.Errorf("%w: set %s or enter it when prompted", ErrCredentialMissing, d.KeyEnvVar)
	}

	cfg.APIKey = key
	return nil
}
