package assist

import "fmt"

// Intake question guide used in prompts to steer the model toward the
// catalog's answer vocabulary.
const intakeGuide = `
Intake Question Guide:

1. need_type — what kind of need is this?
   new              buying something we do not have under contract
   continue_extend  keeping existing work going (options, follow-ons, bridges)
   change_existing  modifying a contract we already hold (mods, CLIN actions)

2. situation — the sub-type within the need:
   new:              no_specific_vendor | specific_vendor
   continue_extend:  options_remaining | expiring_same_vendor | expiring_compete | need_bridge | expired_gap
   change_existing:  add_scope | admin_correction | clin_reallocation | odc_clin | travel_clin

3. vendor_known — only when the requestor has vendors in mind:
   no | limited | sole

4. buy_category — what is being bought:
   product | service | software | mixed
   (mixed additionally requires predominant_element:
    predominantly_product | predominantly_service | roughly_equal)

5. estimated_value — total estimated dollar value as a number.

6. contract_id / clin_id — only for change_existing situations that name an
   existing contract or CLIN.
`

// BuildIntakePrompt creates the structured-extraction prompt for a free-text
// need description.
func BuildIntakePrompt(description string) string {
	return fmt.Sprintf(`You are an acquisition intake assistant. Map the requestor's description
of their need onto the structured intake answer.
%s
Requestor's description: "%s"

RULES:
- Use ONLY the enumerated values above; leave a field empty ("") when the
  description gives no basis for it.
- Do NOT guess dollar values; use 0 when no value is stated.
- If the description is too vague to pick a need_type and situation, return a
  clarification question instead of an answer.

Return ONLY valid JSON with this exact structure:
{
  "answer": {
    "need_type": "string",
    "situation": "string",
    "vendor_known": "string",
    "buy_category": "string",
    "predominant_element": "string",
    "estimated_value": 0,
    "contract_id": "string",
    "clin_id": "string"
  },
  "confidence": 0.0,
  "clarification": "follow-up question, or empty when the answer is usable"
}`, intakeGuide, description)
}
