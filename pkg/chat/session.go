package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"support-chat-be/pkg/llm"
)

// DefaultGreeting seeds every fresh session so the assistant speaks first.
const DefaultGreeting = "Hi! How can I help you today?"

// Session owns one conversation with the support endpoint. All state lives
// on the session itself, never in package globals, so concurrent sessions
// cannot interfere.
type Session struct {
	mu         sync.Mutex
	endpoint   string
	httpClient *http.Client
	greeting   string
	messages   []llm.Message
	submitting bool
	lastErr    error
}

func NewSession(endpoint string) *Session {
	s := &Session{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		greeting: DefaultGreeting,
	}
	s.messages = []llm.Message{{Role: llm.RoleAssistant, Content: s.greeting}}
	return s
}

type chatRequest struct {
	Messages []llm.Message `json:"messages"`
}

// Send appends the user message, posts the full history and consumes the
// token stream, growing the in-progress assistant turn chunk by chunk. The
// returned channel yields each received chunk and closes when the turn
// finishes. Cancelling ctx leaves the partial assistant message final.
func (s *Session) Send(ctx context.Context, text string) (<-chan string, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, fmt.Errorf("a message is already in flight")
	}
	s.submitting = true
	s.lastErr = nil
	s.messages = append(s.messages, llm.Message{Role: llm.RoleUser, Content: text})
	outbound := make([]llm.Message, len(s.messages))
	copy(outbound, s.messages)
	s.mu.Unlock()

	payload, err := json.Marshal(chatRequest{Messages: outbound})
	if err != nil {
		s.finish(err)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		s.finish(err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.finish(err)
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		err := fmt.Errorf("support endpoint returned status %d", resp.StatusCode)
		s.finish(err)
		return nil, err
	}

	s.mu.Lock()
	s.messages = append(s.messages, llm.Message{Role: llm.RoleAssistant, Content: ""})
	s.mu.Unlock()

	chunks := make(chan string)
	go s.consume(resp.Body, chunks)
	return chunks, nil
}

func (s *Session) consume(body io.ReadCloser, chunks chan<- string) {
	defer close(chunks)
	defer body.Close()

	buf := make([]byte, 4*1024)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			delta := string(buf[:n])
			s.mu.Lock()
			s.messages[len(s.messages)-1].Content += delta
			s.mu.Unlock()
			chunks <- delta
		}
		if err != nil {
			if err != io.EOF {
				// Cancellation mid-stream: the partial assistant message
				// stays in the history as the final turn.
				s.finish(err)
				return
			}
			s.finish(nil)
			return
		}
	}
}

func (s *Session) finish(err error) {
	s.mu.Lock()
	s.submitting = false
	s.lastErr = err
	s.mu.Unlock()
}

// Reset truncates the conversation back to the greeting.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []llm.Message{{Role: llm.RoleAssistant, Content: s.greeting}}
	s.lastErr = nil
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
