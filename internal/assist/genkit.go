package assist

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// RegisterOpenRouterProvider registers the OpenRouter-served models as Genkit
// providers so intake-assist flows can be composed and traced through Genkit
// tooling.
func RegisterOpenRouterProvider(ctx context.Context, client *Client) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, nil)

	define := func(name, label string) {
		genkit.DefineModel(
			g,
			name,
			&ai.ModelOptions{
				Label: label,
				Supports: &ai.ModelSupports{
					Multiturn:  true,
					SystemRole: true,
				},
			},
			func(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
				prompt := ""
				for _, msg := range req.Messages {
					for _, part := range msg.Content {
						prompt += part.Text
					}
				}

				proposal, err := GenerateStructured[AnswerProposal](client, ctx, "", prompt, nil)
				if err != nil {
					return nil, err
				}

				text := proposal.Clarification
				if text == "" {
					text = "answer proposed"
				}
				return &ai.ModelResponse{
					Request: req,
					Message: &ai.Message{
						Content: []*ai.Part{
							ai.NewTextPart(text),
						},
					},
				}, nil
			},
		)
	}

	define("openrouter/claude", "Claude 3.5 Sonnet (via OpenRouter)")
	define("openrouter/gemini", "Gemini 2.5 Flash (via OpenRouter)")

	return g, nil
}
