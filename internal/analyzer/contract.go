// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analyzer

// Instruction is the fixed system directive sent with every audit.
// It is part of the analyzer contract and must not vary per request.
const Instruction = `You are an expert analyst of coded language, dog whistles, and euphemisms used to disguise calls for harmful action. Analyze the provided text and assess the risk that it communicates a harmful intent beneath an innocuous surface reading.

Rules:
- Judge the text as written; do not speculate beyond it.
- Quote identified coded terms exactly as they appear in the text.
- The translation must state the plain meaning of the text, not a summary of your analysis.
- Respond with a single JSON object and nothing else.`

// ResultSchema is the fixed output schema sent with every audit. The
// analyzer must respond with a JSON object carrying exactly these
// fields; extra fields are ignored by the caller.
const ResultSchema = `{
  "type": "object",
  "properties": {
    "score": {"type": "integer", "minimum": 1, "maximum": 10, "description": "Risk score, 1 benign to 10 severe"},
    "risk_level": {"type": "string", "enum": ["Low", "Medium", "High", "Critical"]},
    "identified_codes": {"type": "array", "items": {"type": "string"}, "description": "Coded terms quoted from the text"},
    "explanation": {"type": "string", "description": "Reasoning for the score"},
    "translated_text": {"type": "string", "description": "The text rewritten in plain language"}
  },
  "required": ["score", "risk_level", "identified_codes", "explanation", "translated_text"]
}`

// NewRequest binds text to the fixed contract.
func NewRequest(text string) Request {
	return Request{
		Text:        text,
		Instruction: Instruction,
		Schema:      ResultSchema,
	}
}
