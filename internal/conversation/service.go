// Package conversation builds Japanese sentence exercises from the stored
// per-server history and keeps that history up to date.
package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/reibun/reibunbot/internal/ai"
	"github.com/reibun/reibunbot/internal/database"
)

const (
	firstPrompt   = "Give me an example Japanese sentence."
	anotherPrompt = "Give me another sentence that's completely different from this one."
)

// ErrNoContent is returned when the AI reply is not a complete sentence exercise.
var ErrNoContent = errors.New("AI reply has no usable content")

// Entry is one stored history turn.
type Entry struct {
	Role    ai.Role `json:"role"`
	Content string  `json:"content"`
}

// Service generates exercises and manages per-server history.
type Service struct {
	store        database.Store
	client       ai.Client
	systemPrompt string
	locks        *keyedMutex
	logger       *slog.Logger
}

// NewService wires the history store and AI client together.
func NewService(store database.Store, client ai.Client, systemPrompt string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:        store,
		client:       client,
		systemPrompt: systemPrompt,
		locks:        newKeyedMutex(),
		logger:       logger.With("component", "conversation"),
	}
}

// Generate asks the AI for a sentence the server has not seen yet, stores its
// first line and returns the rendered exercise. Requests for the same server
// run one at a time; a request gives up waiting when ctx is done.
func (s *Service) Generate(ctx context.Context, serverID int64) (string, error) {
	unlock, err := s.locks.Lock(ctx, serverID)
	if err != nil {
		return "", fmt.Errorf("waiting for server %d: %w", serverID, err)
	}
	defer unlock()

	startTime := time.Now()

	rows, err := s.store.GetServerHistory(ctx, serverID)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}

	messages := s.buildMessages(rows)
	s.logger.DebugContext(ctx, "Requesting sentence", "server_id", serverID, "history", len(rows), "messages", len(messages))

	raw, err := s.client.Complete(ctx, ai.Request{Messages: messages, Schema: SentenceSchema})
	if err != nil {
		return "", fmt.Errorf("AI request failed: %w", err)
	}

	sentence, err := ParseSentence(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "Discarding unusable AI reply", "server_id", serverID, "error", err)
		return "", err
	}

	text := sentence.Format()

	blob, err := json.Marshal(Entry{Role: ai.RoleAssistant, Content: firstLine(text)})
	if err != nil {
		return "", fmt.Errorf("failed to encode history entry: %w", err)
	}
	if err := s.store.AppendServerHistory(ctx, serverID, string(blob)); err != nil {
		return "", fmt.Errorf("failed to save history: %w", err)
	}

	s.logger.InfoContext(ctx, "Generated sentence", "server_id", serverID, "duration", time.Since(startTime))
	return text, nil
}

// Clear removes the whole history of a server and returns the number of
// deleted entries.
func (s *Service) Clear(ctx context.Context, serverID int64) (int64, error) {
	unlock, err := s.locks.Lock(ctx, serverID)
	if err != nil {
		return 0, fmt.Errorf("waiting for server %d: %w", serverID, err)
	}
	defer unlock()

	count, err := s.store.DeleteServerHistory(ctx, serverID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return count, nil
}

// History returns the decoded history of a server in insertion order.
func (s *Service) History(ctx context.Context, serverID int64) ([]Entry, error) {
	rows, err := s.store.GetServerHistory(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, decodeEntry(row))
	}
	return entries, nil
}

// buildMessages lays out system, first user prompt, then one assistant and
// one follow-up prompt per stored turn.
func (s *Service) buildMessages(rows []database.ServerData) []ai.Message {
	messages := make([]ai.Message, 0, 2+2*len(rows))
	messages = append(messages,
		ai.Message{Role: ai.RoleSystem, Content: s.systemPrompt},
		ai.Message{Role: ai.RoleUser, Content: firstPrompt},
	)
	for _, row := range rows {
		messages = append(messages,
			ai.Message{Role: ai.RoleAssistant, Content: decodeEntry(row).Content},
			ai.Message{Role: ai.RoleUser, Content: anotherPrompt},
		)
	}
	return messages
}

// decodeEntry falls back to the raw blob when it is not a stored entry.
func decodeEntry(row database.ServerData) Entry {
	var e Entry
	if err := json.Unmarshal([]byte(row.JSON.String), &e); err != nil || e.Content == "" {
		return Entry{Role: ai.RoleAssistant, Content: row.JSON.String}
	}
	return e
}
