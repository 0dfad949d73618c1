// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResponse = `{
	"score": 8,
	"risk_level": "Critical",
	"identified_codes": ["guests"],
	"explanation": "Coded call to forcibly remove protestors.",
	"translated_text": "Forcibly remove the protestors from the ground."
}`

// TestDecodeResult_Valid verifies a conforming response decodes fully.
func TestDecodeResult_Valid(t *testing.T) {
	got, err := decodeResult(validResponse)
	require.NoError(t, err)

	assert.Equal(t, Result{
		Score:           8,
		RiskLevel:       "Critical",
		IdentifiedCodes: []string{"guests"},
		Explanation:     "Coded call to forcibly remove protestors.",
		TranslatedText:  "Forcibly remove the protestors from the ground.",
	}, got)
}

// TestDecodeResult_FencedJSON verifies a markdown fence is tolerated.
func TestDecodeResult_FencedJSON(t *testing.T) {
	got, err := decodeResult("```json\n" + validResponse + "\n```")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Score)
}

// TestDecodeResult_ExtraFieldsIgnored verifies unknown fields do not
// fail validation.
func TestDecodeResult_ExtraFieldsIgnored(t *testing.T) {
	got, err := decodeResult(`{
		"score": 2, "risk_level": "Low", "identified_codes": [],
		"explanation": "benign", "translated_text": "benign text",
		"confidence": 0.9, "model": "x"
	}`)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Score)
	assert.Empty(t, got.IdentifiedCodes)
}

// TestDecodeResult_Malformed rejects every schema violation without
// producing a partial result.
func TestDecodeResult_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "the text is fine, score 2"},
		{"json array", `[1, 2, 3]`},
		{"missing score", `{"risk_level":"Low","identified_codes":[],"explanation":"e","translated_text":"t"}`},
		{"missing risk_level", `{"score":2,"identified_codes":[],"explanation":"e","translated_text":"t"}`},
		{"missing identified_codes", `{"score":2,"risk_level":"Low","explanation":"e","translated_text":"t"}`},
		{"missing explanation", `{"score":2,"risk_level":"Low","identified_codes":[],"translated_text":"t"}`},
		{"missing translated_text", `{"score":2,"risk_level":"Low","identified_codes":[],"explanation":"e"}`},
		{"score not numeric", `{"score":"8","risk_level":"Low","identified_codes":[],"explanation":"e","translated_text":"t"}`},
		{"score not integral", `{"score":7.5,"risk_level":"Low","identified_codes":[],"explanation":"e","translated_text":"t"}`},
		{"score below range", `{"score":0,"risk_level":"Low","identified_codes":[],"explanation":"e","translated_text":"t"}`},
		{"score above range", `{"score":11,"risk_level":"Low","identified_codes":[],"explanation":"e","translated_text":"t"}`},
		{"unknown risk level", `{"score":2,"risk_level":"Severe","identified_codes":[],"explanation":"e","translated_text":"t"}`},
		{"lowercase risk level", `{"score":2,"risk_level":"low","identified_codes":[],"explanation":"e","translated_text":"t"}`},
		{"codes not strings", `{"score":2,"risk_level":"Low","identified_codes":[1,2],"explanation":"e","translated_text":"t"}`},
		{"codes not array", `{"score":2,"risk_level":"Low","identified_codes":"guests","explanation":"e","translated_text":"t"}`},
		{"empty response", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeResult(tt.raw)
			assert.Error(t, err)
		})
	}
}

// TestDecodeResult_DuplicateCodes verifies duplicates are preserved in
// order, not collapsed.
func TestDecodeResult_DuplicateCodes(t *testing.T) {
	got, err := decodeResult(`{
		"score": 5, "risk_level": "Medium",
		"identified_codes": ["guests", "ground", "guests"],
		"explanation": "e", "translated_text": "t"
	}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"guests", "ground", "guests"}, got.IdentifiedCodes)
}
