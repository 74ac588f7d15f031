package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/fieldmed/dictation-platform/internal/record"
)

const promptTemplate = `## SYSTEM INSTRUCTIONS
Purpose: This assistant updates specific fields of a medical procedure record based on user input, including generating appropriate SNOMED CT and ICD-10 codes for diagnoses and procedures.

Input: Free-text input related to a specific field in the medical record.

Output: A JSON object containing only the fields that were updated based on the user's input, including SNOMED CT and ICD-10 codes when relevant medical information is provided.

Special Instructions:
1. When procedures or diagnoses are mentioned, update the 'procedure.procedures_performed' field and generate appropriate codes in the 'coding' section.
2. Do not insert codes directly into the 'procedure' section fields. All codes belong in the 'coding' section.
3. For CPT, SNOMED CT, and ICD-10 codes, provide both the code and its description in the following format:
   {"code": "12345", "description": "Description of the procedure or diagnosis"}
4. For dates, always format them as strings in YYYY-MM-DD format (e.g., "2024-10-02" for October 2, 2024).
5. Pay special attention to preoperative and postoperative diagnoses, procedures performed, and any mentioned complications or conditions.
6. Focus on filling the missing required fields.
7. Do not use comments in the JSON response.
8. Ensure all property names are enclosed in double quotes.
9. Maintain proper JSON structure, especially for arrays and nested objects.
10. For 'preoperative_diagnosis' and 'postoperative_diagnosis', provide a single string value, not an array.

Current Record State:
%s

Current Prompt:
%s

## USER MESSAGE
%s

## ASSISTANT RESPONSE
Based on the user's input, update the relevant fields in the record, including appropriate SNOMED CT and ICD-10 codes for any mentioned diagnoses or procedures. Focus on filling the missing required fields. Do not add or modify any information that was not explicitly provided by the user. Your response must be a valid JSON object with the following structure:
{
    "updated_record": {
        "patient": {
            "field_name": "value"
        },
        "procedure": {
            "field_name": "value",
            "preoperative_diagnosis": "Single string diagnosis",
            "postoperative_diagnosis": "Single string diagnosis",
            "procedures_performed": [
                "Procedure 1",
                "Procedure 2"
            ]
        },
        "coding": {
            "cpt": [
                {"code": "12345", "description": "Description of procedure 1"}
            ],
            "snomed_ct": [
                {"code": "123456789", "description": "SNOMED CT description 1"}
            ],
            "icd_10": [
                {"code": "A12.3", "description": "ICD-10 description 1"}
            ]
        }
    },
    "message": "Your response message here"
}
`

// BuildPrompt renders the model instruction payload for one turn. It is a
// pure string template: fixed instructions, the serialized record
// snapshot, the outstanding field prompt, and the user's literal words.
func BuildPrompt(userMessage string, rec record.Record, outstanding *record.Prompt) string {
	recordJSON, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		recordJSON = []byte("{}")
	}
	promptJSON := []byte("null")
	if outstanding != nil {
		if b, err := json.MarshalIndent(outstanding, "", "  "); err == nil {
			promptJSON = b
		}
	}
	return fmt.Sprintf(promptTemplate, recordJSON, promptJSON, userMessage)
}
