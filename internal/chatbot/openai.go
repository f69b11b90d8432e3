package chatbot

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are ShopKart's helpful AI shopping assistant. You help customers with:
- Finding products and recommendations
- Order tracking and status
- Return and refund policies
- Payment and delivery information
- General shopping queries

Be friendly, helpful, and concise. If you don't know something, say so politely.

Store Policies:
- Free delivery on orders above ₹499
- 7-day easy returns on most products
- Cash on Delivery available
- Secure online payments via UPI, Cards, Net Banking

Always be helpful and guide customers to make informed purchases.`

// LLM is the optional OpenAI-backed responder. A nil *LLM is valid and
// means "not configured".
type LLM struct {
	client *openai.Client
}

// NewLLM returns nil when no API key is configured.
func NewLLM(apiKey string) *LLM {
	if apiKey == "" {
		return nil
	}
	return &LLM{client: openai.NewClient(apiKey)}
}

// Reply asks the model for an answer, with the current product context
// appended to the system prompt. Callers fall back to the canned
// responder on any error.
func (l *LLM) Reply(ctx context.Context, productContext, message string) (string, error) {
	prompt := systemPrompt
	if productContext != "" {
		prompt += "\n\nAvailable products: " + productContext
	}

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

var errEmptyCompletion = errors.New("completion returned no choices")
