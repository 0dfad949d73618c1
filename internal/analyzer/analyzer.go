// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package analyzer provides clients for the external risk analysis
// service. Every backend receives the same fixed instruction and output
// schema contract; parsing and validating what comes back is the audit
// controller's concern.
package analyzer

import "context"

// Request is one analysis request: the raw text under audit plus the
// fixed instruction and schema contract.
type Request struct {
	Text        string
	Instruction string
	Schema      string
}

// Analyzer defines the standard interface for any analysis backend.
//
// Analyze performs exactly one request/response cycle and returns the
// raw model output. Implementations enforce their own transport
// timeouts; any transport or service failure is returned as an error.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (string, error)
}
