// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// wireResult mirrors Result with pointer fields so that absent and
// present-but-zero values are distinguishable. Extra fields in the
// response are ignored.
type wireResult struct {
	Score           *float64  `json:"score" validate:"required"`
	RiskLevel       *string   `json:"risk_level" validate:"required,oneof=Low Medium High Critical"`
	IdentifiedCodes *[]string `json:"identified_codes" validate:"required"`
	Explanation     *string   `json:"explanation" validate:"required"`
	TranslatedText  *string   `json:"translated_text" validate:"required"`
}

// decodeResult parses raw analyzer output into a Result.
//
// # Description
//
// The output must be a single JSON object carrying all five schema
// fields: score numeric and integral in 1..10, risk_level one of the
// four labels, identified_codes an array of strings. A surrounding
// markdown code fence is tolerated; any other deviation is an error
// and no partial Result is produced.
func decodeResult(raw string) (Result, error) {
	var wire wireResult
	if err := json.Unmarshal([]byte(stripFence(raw)), &wire); err != nil {
		return Result{}, fmt.Errorf("response is not a JSON object: %w", err)
	}

	if err := validate.Struct(&wire); err != nil {
		return Result{}, fmt.Errorf("response violates result schema: %w", err)
	}

	score := *wire.Score
	if score != math.Trunc(score) {
		return Result{}, fmt.Errorf("score %v is not an integer", score)
	}
	if score < 1 || score > 10 {
		return Result{}, fmt.Errorf("score %v is outside 1..10", score)
	}

	return Result{
		Score:           int(score),
		RiskLevel:       *wire.RiskLevel,
		IdentifiedCodes: *wire.IdentifiedCodes,
		Explanation:     *wire.Explanation,
		TranslatedText:  *wire.TranslatedText,
	}, nil
}

// stripFence removes a surrounding markdown code fence if present.
// Models occasionally wrap JSON output in ```json fences even when
// asked not to.
func stripFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimSuffix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return strings.TrimSpace(trimmed)
}
