// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package classifier maps analyzer risk labels to display tiers.
//
// The analyzer reports a free-form risk label; everything downstream
// (CLI rendering, HTTP responses) works with a closed set of tiers.
// The mapping is total: any label outside the three elevated ones,
// including an empty or garbled label, falls back to TierLow.
package classifier

// Tier represents the display severity of an audit result.
type Tier string

const (
	TierLow      Tier = "Low"
	TierMedium   Tier = "Medium"
	TierHigh     Tier = "High"
	TierCritical Tier = "Critical"
)

// TierOf maps a risk label to its display tier.
//
// # Description
//
// Pure, deterministic, total function. Matching is exact and
// case-sensitive: "critical" is not a recognized label and maps to
// TierLow, the safe display default for anything the analyzer did not
// label explicitly.
//
// # Inputs
//
//   - level: The risk label as returned by the analyzer.
//
// # Outputs
//
//   - Tier: Exactly one of the four tiers.
func TierOf(level string) Tier {
	switch level {
	case "Critical":
		return TierCritical
	case "High":
		return TierHigh
	case "Medium":
		return TierMedium
	default:
		return TierLow
	}
}

// Order returns the numeric order of this tier, TierLow being 0.
func (t Tier) Order() int {
	switch t {
	case TierCritical:
		return 3
	case TierHigh:
		return 2
	case TierMedium:
		return 1
	default:
		return 0
	}
}

// Exceeds returns true if this tier is strictly above the threshold.
func (t Tier) Exceeds(threshold Tier) bool {
	return t.Order() > threshold.Order()
}
