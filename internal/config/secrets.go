// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/awnumar/memguard"
)

// Credential names and fallback locations for the analyzer backends.
const (
	// EnvOpenAIAPIKey is the OpenAI API key environment variable.
	EnvOpenAIAPIKey = "OPENAI_API_KEY"

	// SecretPathOpenAIAPIKey is the container-secret fallback path.
	SecretPathOpenAIAPIKey = "/run/secrets/openai_api_key"
)

// Credential holds one analyzer credential sealed in a memguard
// enclave. The plaintext exists outside protected memory only inside
// Reveal, for handing to a client constructor.
//
// A Credential is always usable; a zero or failed resolution yields
// one whose Present() is false.
type Credential struct {
	enclave *memguard.Enclave
}

// ResolveCredential reads a credential from the environment variable,
// falling back to the secret file. An empty result is an absent
// credential, not an error: presence is checked per audit.
func ResolveCredential(envVar, secretPath string) *Credential {
	if value := os.Getenv(envVar); value != "" {
		return &Credential{enclave: memguard.NewEnclave([]byte(value))}
	}
	if secretPath != "" {
		if raw, err := os.ReadFile(secretPath); err == nil {
			if value := strings.TrimSpace(string(raw)); value != "" {
				slog.Info("Read the analyzer credential from the secret file", "path", secretPath)
				return &Credential{enclave: memguard.NewEnclave([]byte(value))}
			}
		}
	}
	return &Credential{}
}

// NewStaticCredential wraps an already-resolved configuration value,
// for backends whose required setting is not a secret (the ollama
// base URL). An empty value is absent.
func NewStaticCredential(value string) *Credential {
	if value == "" {
		return &Credential{}
	}
	return &Credential{enclave: memguard.NewEnclave([]byte(value))}
}

// Present reports whether the credential is available.
func (c *Credential) Present() bool {
	return c != nil && c.enclave != nil
}

// Reveal returns a plaintext copy of the credential for client
// construction. Callers should not retain it beyond that.
func (c *Credential) Reveal() (string, error) {
	if !c.Present() {
		return "", errors.New("credential is not set")
	}
	buf, err := c.enclave.Open()
	if err != nil {
		return "", err
	}
	defer buf.Destroy()
	return string(buf.Bytes()), nil
}
