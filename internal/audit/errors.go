// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import "fmt"

// ConfigurationError indicates the analyzer credential is missing.
//
// It is raised before any analyzer contact; resubmitting without fixing
// the configuration will fail the same way.
type ConfigurationError struct {
	// Missing names the credential or setting that was absent.
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is not set", e.Missing)
}

// LinkError indicates the analyzer was unreachable or returned a
// service-level failure. The audit can be resubmitted manually; no
// automatic retry is attempted.
type LinkError struct {
	// Wrapped is the underlying transport or service error.
	Wrapped error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("analyzer link failure: %v", e.Wrapped)
}

func (e *LinkError) Unwrap() error {
	return e.Wrapped
}

// MalformedResponseError indicates the analyzer responded, but its
// output did not conform to the result schema. Nothing is stored.
type MalformedResponseError struct {
	// Wrapped is the parse or validation error.
	Wrapped error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed analyzer response: %v", e.Wrapped)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Wrapped
}
