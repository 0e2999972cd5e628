// backend-go/internal/assistant/client.go
package assistant

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog/log"
)

// Apology is returned verbatim when the model call fails; the raw error
// stays in the logs only.
const Apology = "I'm having trouble analyzing the data right now. Please try again in a moment."

// ErrBusy is returned while a session already has a request in flight.
type ErrBusy struct{ SessionID string }

func (e *ErrBusy) Error() string {
	return "assistant session " + e.SessionID + " already has a request in flight"
}

// Assistant answers dashboard questions over the OpenAI Responses API. One
// request runs per session at a time.
type Assistant struct {
	client *openai.Client
	model  shared.ResponsesModel

	mu       sync.Mutex
	inFlight map[string]bool
}

func New(apiKey, model string) *Assistant {
	if model == "" {
		model = shared.ChatModelGPT4o
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Assistant{
		client:   &client,
		model:    shared.ResponsesModel(model),
		inFlight: make(map[string]bool),
	}
}

// NewSession mints a session id for a chat conversation.
func NewSession() string {
	return uuid.NewString()
}

func (a *Assistant) acquire(sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inFlight[sessionID] {
		return &ErrBusy{SessionID: sessionID}
	}
	a.inFlight[sessionID] = true
	return nil
}

func (a *Assistant) release(sessionID string) {
	a.mu.Lock()
	delete(a.inFlight, sessionID)
	a.mu.Unlock()
}

// Ask builds the prompt for one question and returns the model's answer.
// Model failures degrade to the fixed apology; only a busy session
// surfaces as an error.
func (a *Assistant) Ask(ctx context.Context, sessionID string, in ContextInput, question string) (string, error) {
	if err := a.acquire(sessionID); err != nil {
		return "", err
	}
	defer a.release(sessionID)

	params := responses.ResponseNewParams{
		Model:        a.model,
		Instructions: param.NewOpt(SystemInstruction(in)),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(BuildPrompt(in, question)),
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("assistant request failed")
		return Apology, nil
	}

	answer := resp.OutputText()
	if answer == "" {
		log.Warn().Str("session", sessionID).Msg("assistant returned empty output")
		return Apology, nil
	}
	return answer, nil
}
