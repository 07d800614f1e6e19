package components

import (
	"fmt"
	"sync"
)

type MemoryStore interface {
	MaxMessages() int
	TurnID() string
	NewTurn() MemoryStore
	NewMessage(MessageRole, string) *Message
	Append(*Message) *Message
	History() []Message
	Reset() MemoryStore
	MessageCount() int
}

// Memory keeps the chat history of an agent run.
// threadsafe
type Memory struct {
	history []Message
	turnID  string
	// maxMessages bounds the history, oldest messages are dropped first. 0 means unbounded.
	maxMessages int
	mtx         sync.RWMutex
}

var _ MemoryStore = (*Memory)(nil)

// NewMemory returns an empty Memory
func NewMemory(maxMessages int) *Memory {
	return &Memory{
		maxMessages: maxMessages,
		history:     make([]Message, 0, maxMessages+1),
	}
}

// MaxMessages returns the max number of messages
func (m *Memory) MaxMessages() int {
	return m.maxMessages
}

// TurnID returns the current turn ID
func (m *Memory) TurnID() string {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.turnID
}

// NewTurn starts a new turn with a random turn ID.
func (m *Memory) NewTurn() MemoryStore {
	m.mtx.Lock()
	m.turnID = NewTurnID()
	m.mtx.Unlock()
	return m
}

// NewMessage adds a message to the current turn
func (m *Memory) NewMessage(role MessageRole, content string) *Message {
	return m.Append(NewMessage(role, content))
}

// Append adds msg to the current turn and trims the history to maxMessages.
// A tool message left at the head of the history is dropped too.
func (m *Memory) Append(msg *Message) *Message {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	msg.SetTurnID(m.turnID)
	m.history = append(m.history, *msg)
	if m.maxMessages > 0 {
		for len(m.history) > m.maxMessages || (len(m.history) > 0 && m.history[0].Role() == ToolRole) {
			m.history = m.history[1:]
		}
	}
	return msg
}

// History returns a copy of the chat history
func (m *Memory) History() []Message {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	ret := make([]Message, len(m.history))
	copy(ret, m.history)
	return ret
}

func (m *Memory) Reset() MemoryStore {
	m.mtx.Lock()
	m.history = make([]Message, 0, m.maxMessages+1)
	m.turnID = ""
	m.mtx.Unlock()
	return m
}

// DeleteTurn removes every message of the given turn
func (m *Memory) DeleteTurn(turnID string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	list := make([]Message, 0, len(m.history))
	for _, v := range m.history {
		if v.TurnID() != turnID {
			list = append(list, v)
		}
	}
	if len(list) == len(m.history) {
		return fmt.Errorf("turn %s not found in memory", turnID)
	}
	m.history = list
	if len(list) == 0 {
		m.turnID = ""
	} else if turnID == m.turnID {
		m.turnID = list[len(list)-1].TurnID()
	}
	return nil
}

// MessageCount returns the number of messages in the chat history.
func (m *Memory) MessageCount() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return len(m.history)
}
