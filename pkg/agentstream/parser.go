// Package agentstream consumes the newline-delimited JSON events an agent
// endpoint streams back through the webhook proxy and folds them into a
// single in-progress agent message.
package agentstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log"
	"time"
)

type State int

const (
	StateIdle State = iota
	StateAwaitingFirstByte
	StateStreaming
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingFirstByte:
		return "awaiting_first_byte"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrInvalidTransition = errors.New("invalid stream state transition")
	ErrEmptyBody         = errors.New("response body is empty")
)

const itemEventType = "item"

// Logger is satisfied by *log.Logger
type Logger interface {
	Printf(format string, v ...any)
}

type Option func(*Parser)

// WithNavigate registers the callback fired, at most once per stream, when
// the agent assigns a conversation id.
func WithNavigate(fn func(conversationID string)) Option {
	return func(p *Parser) { p.onNavigate = fn }
}

// WithUpdate registers the callback fired after every appended content item.
func WithUpdate(fn func(msg *Message)) Option {
	return func(p *Parser) { p.onUpdate = fn }
}

func WithLogger(l Logger) Option {
	return func(p *Parser) { p.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// Parser is single use: one parser per streaming turn.
type Parser struct {
	conv  *Conversation
	msg   *Message
	state State
	err   error

	navigated      bool
	conversationID string
	pending        []byte

	onNavigate func(string)
	onUpdate   func(*Message)
	logger     Logger
	now        func() time.Time
}

func NewParser(conv *Conversation, opts ...Option) *Parser {
	p := &Parser{
		conv:   conv,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) State() State { return p.state }

// Message returns the placeholder created by Begin, nil before that.
func (p *Parser) Message() *Message { return p.msg }

// ConversationID returns the id announced by the stream, if any.
func (p *Parser) ConversationID() string { return p.conversationID }

func (p *Parser) Err() error { return p.err }

// Begin appends an empty agent placeholder to the conversation and moves the
// parser to AwaitingFirstByte. Call it when the proxy request is issued.
func (p *Parser) Begin() (*Message, error) {
	if p.state != StateIdle {
		return nil, fmt.Errorf("%w: begin from %s", ErrInvalidTransition, p.state)
	}
	p.msg = &Message{
		ID:             p.conv.NextMessageID(),
		Sender:         SenderAgent,
		Timestamp:      p.now(),
		AgentID:        p.conv.AgentID,
		ConversationID: p.conv.ID,
	}
	p.conv.Append(p.msg)
	p.state = StateAwaitingFirstByte
	return p.msg, nil
}

// Fail moves the parser to Failed, keeping whatever content has arrived.
// Failing an already failed parser returns the first error.
func (p *Parser) Fail(cause error) error {
	switch p.state {
	case StateFailed:
		return p.err
	case StateAwaitingFirstByte, StateStreaming:
		p.pending = nil
		p.state = StateFailed
		p.err = fmt.Errorf("agent stream failed: %w", cause)
		return p.err
	default:
		return fmt.Errorf("%w: fail from %s", ErrInvalidTransition, p.state)
	}
}

// Consume drives the parser over a sequence of byte chunks until the
// sequence ends, yields an error, or ctx is cancelled. Chunks are handled
// strictly in order. A sequence that ends before any byte arrives is an
// empty body and fails the stream.
func (p *Parser) Consume(ctx context.Context, chunks iter.Seq2[[]byte, error]) error {
	if p.state != StateAwaitingFirstByte {
		return fmt.Errorf("%w: consume from %s", ErrInvalidTransition, p.state)
	}

	for chunk, err := range chunks {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return p.Fail(ctxErr)
		}
		if err != nil {
			return p.Fail(err)
		}
		if len(chunk) == 0 {
			continue
		}
		if p.state == StateAwaitingFirstByte {
			p.state = StateStreaming
		}
		p.feed(chunk)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return p.Fail(ctxErr)
	}
	if p.state == StateAwaitingFirstByte {
		return p.Fail(ErrEmptyBody)
	}

	// trailing line without a newline
	if len(bytes.TrimSpace(p.pending)) > 0 {
		p.handleLine(p.pending)
	}
	p.pending = nil
	p.state = StateCompleted
	return nil
}

func (p *Parser) feed(chunk []byte) {
	p.pending = append(p.pending, chunk...)
	for {
		idx := bytes.IndexByte(p.pending, '\n')
		if idx < 0 {
			return
		}
		line := p.pending[:idx]
		p.handleLine(line)
		p.pending = p.pending[idx+1:]
	}
}

func (p *Parser) handleLine(raw []byte) {
	line := bytes.TrimSpace(raw)
	if len(line) == 0 {
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		p.logger.Printf("Could not parse streamed line as JSON: %q: %v", line, err)
		return
	}

	if raw, ok := fields["conversationId"]; ok {
		var id string
		if json.Unmarshal(raw, &id) == nil && id != "" {
			p.announce(id)
		}
	}

	var eventType string
	if raw, ok := fields["type"]; !ok || json.Unmarshal(raw, &eventType) != nil || eventType != itemEventType {
		return
	}
	var content string
	if raw, ok := fields["content"]; !ok || json.Unmarshal(raw, &content) != nil || content == "" {
		return
	}
	p.msg.Content += content
	if p.onUpdate != nil {
		p.onUpdate(p.msg)
	}
}

func (p *Parser) announce(id string) {
	if p.navigated {
		return
	}
	p.navigated = true
	p.conversationID = id
	if p.onNavigate != nil {
		p.onNavigate(id)
	}
}
