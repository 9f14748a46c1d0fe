package assist

import (
	"context"

	"acqflow/pkg/schema"
)

// AnswerProposal is the structured output the model returns for a free-text
// need description. When the model cannot commit to an answer it sets
// Clarification to the follow-up question instead; the answer fields are then
// ignored.
type AnswerProposal struct {
	Answer        schema.IntakeAnswer `json:"answer"`
	Confidence    float64             `json:"confidence"`
	Clarification string              `json:"clarification,omitempty"`
}

// Proposer proposes structured intake answers from free text. The engine only
// ever consumes the validated answer; derivation itself stays deterministic.
type Proposer interface {
	Propose(ctx context.Context, description string) (*AnswerProposal, error)
}

// LLMProposer backs Proposer with the OpenRouter structured-output client.
type LLMProposer struct {
	client *Client
	model  string
}

// NewLLMProposer creates a proposer using the given model (empty for the
// client default).
func NewLLMProposer(client *Client, model string) *LLMProposer {
	return &LLMProposer{client: client, model: model}
}

// Propose asks the model for a structured intake answer, retrying on
// schema-invalid output.
func (p *LLMProposer) Propose(ctx context.Context, description string) (*AnswerProposal, error) {
	prompt := BuildIntakePrompt(description)
	return GenerateStructured[AnswerProposal](p.client, ctx, p.model, prompt, validateProposal)
}

func validateProposal(p *AnswerProposal) error {
	// A clarification request carries no answer to validate.
	if p.Clarification != "" {
		return nil
	}
	answer := p.Answer
	return schema.ValidateAnswer(&answer)
}

// MockProposer is a canned Proposer for tests and the demo binary.
type MockProposer struct {
	Proposal *AnswerProposal
	Err      error
}

// Propose returns the canned proposal.
func (m *MockProposer) Propose(ctx context.Context, description string) (*AnswerProposal, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Proposal, nil
}
