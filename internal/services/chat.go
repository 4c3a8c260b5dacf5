package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/logging"
)

// ErrChatFailed marks a backend reply with success=false.
var ErrChatFailed = errors.New("chatbot could not answer")

// Message is one turn in a chat session.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	FromUser  bool      `json:"fromUser"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatService creates chat sessions bound to a user.
type ChatService struct {
	client api.Client
	log    logging.Logger
}

func NewChatService(client api.Client, log logging.Logger) *ChatService {
	if log == nil {
		log = logging.Nop()
	}
	return &ChatService{client: client, log: log}
}

// NewSession starts an empty chat session for userID.
func (s *ChatService) NewSession(userID string) *ChatSession {
	return &ChatSession{client: s.client, log: s.log, userID: userID, now: time.Now}
}

// ChatSession holds the ordered message list of one conversation. The user's
// message is appended synchronously before any network I/O; sends are
// serialized so bot replies land in send order even under rapid successive
// sends.
type ChatSession struct {
	client api.Client
	log    logging.Logger
	userID string

	// sendMu serializes the network exchange; mu protects the state below.
	sendMu sync.Mutex
	mu     sync.Mutex

	conversationID string
	messages       []Message

	now func() time.Time // test seam
}

// Send posts content to the chatbot and returns the bot's reply message.
// On any failure the user's message remains in the transcript, no bot
// message is appended, and the error is returned for the caller to surface.
func (c *ChatSession) Send(ctx context.Context, content string) (*Message, error) {
	userMsg := Message{
		ID:        uuid.NewString(),
		Content:   content,
		FromUser:  true,
		Timestamp: c.now(),
	}

	c.mu.Lock()
	c.messages = append(c.messages, userMsg)
	c.mu.Unlock()

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	convID := c.conversationID
	c.mu.Unlock()

	reply, err := c.client.SendChat(ctx, api.ChatRequest{
		UserID:         c.userID,
		Message:        content,
		ConversationID: convID,
	})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	if !reply.Success {
		return nil, ErrChatFailed
	}

	botMsg := Message{
		ID:        uuid.NewString(),
		Content:   reply.Response,
		FromUser:  false,
		Timestamp: c.now(),
	}

	c.mu.Lock()
	if reply.ConversationID != "" {
		c.conversationID = reply.ConversationID
	}
	c.messages = append(c.messages, botMsg)
	c.mu.Unlock()

	c.log.Debug(ctx, "chat exchange completed", "conversation", reply.ConversationID, "context_used", reply.ContextUsed)
	return &botMsg, nil
}

// Messages returns a copy of the transcript in append order.
func (c *ChatSession) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// ConversationID returns the thread identifier assigned by the backend,
// empty until the first successful exchange returns one.
func (c *ChatSession) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID
}
