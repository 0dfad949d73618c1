// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package audit implements the audit request lifecycle: input
// validation, the single analyzer call, strict response validation,
// and the history update.
package audit

import "time"

// Result is a structured risk assessment produced by one audit.
//
// A Result exists only as the successful outcome of one audit call and
// is immutable once created. All fields are required; an analyzer
// response missing any of them is rejected as malformed.
type Result struct {
	// Score is the assessed risk score, 1 (benign) to 10 (severe).
	Score int `json:"score"`

	// RiskLevel is the analyzer's label: Low, Medium, High or Critical.
	// Display mapping is the classifier package's concern.
	RiskLevel string `json:"risk_level"`

	// IdentifiedCodes lists the flagged terms or phrases, in the order
	// the analyzer reported them. Duplicates are permitted.
	IdentifiedCodes []string `json:"identified_codes"`

	// Explanation is the analyzer's reasoning for the score.
	Explanation string `json:"explanation"`

	// TranslatedText is the input rewritten in plain language.
	TranslatedText string `json:"translated_text"`
}

// Entry is one past audit as kept in the history.
//
// Entries are never mutated; they are destroyed only by capacity
// eviction or an explicit clear.
type Entry struct {
	// ID is an opaque, monotonically increasing identity assigned by
	// the history store.
	ID uint64 `json:"id"`

	// Input is the original submitted text.
	Input string `json:"input"`

	// Timestamp is the creation time of the entry.
	Timestamp time.Time `json:"timestamp"`

	Result
}
