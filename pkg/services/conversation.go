package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/jsonutil"
	"github.com/exportiq/insight-engine/pkg/models"
	"github.com/exportiq/insight-engine/pkg/store"
)

const (
	conversationsTable = "conversations"
	feedbackTable      = "feedback"

	// sessionTitleLength truncates the first query into a session title.
	sessionTitleLength = 50
)

// ConversationService logs question/answer exchanges and groups them
// into sessions.
type ConversationService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewConversationService creates a store-backed conversation log.
func NewConversationService(st *store.Store, logger *zap.Logger) *ConversationService {
	return &ConversationService{store: st, logger: logger}
}

// Record stores one exchange. A blank conversationID starts a new
// session; the session ID in use is returned either way.
func (s *ConversationService) Record(ctx context.Context, userID int, conversationID, query, response string, agentsUsed []string, chart *models.ChartSpec) (string, error) {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	rec := models.Record{
		"message_id":      uuid.NewString(),
		"user_id":         userID,
		"conversation_id": conversationID,
		"query":           query,
		"response":        response,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}
	if len(agentsUsed) > 0 {
		rec["agents_used"] = agentsUsed
	}
	if chart != nil {
		rec["chart_spec"] = chart
	}

	if _, err := s.store.Insert(ctx, conversationsTable, rec); err != nil {
		return "", fmt.Errorf("failed to store conversation: %w", err)
	}
	return conversationID, nil
}

// Sessions lists a user's sessions newest-first, paginated.
func (s *ConversationService) Sessions(userID, limit, offset int) []models.Session {
	rows := s.store.Query(conversationsTable, map[string]any{"user_id": userID})

	byID := make(map[string][]models.Record)
	for _, row := range rows {
		id := jsonutil.FlexibleString(row["conversation_id"])
		if id == "" {
			continue
		}
		byID[id] = append(byID[id], row)
	}

	sessions := make([]models.Session, 0, len(byID))
	for id, msgs := range byID {
		sort.SliceStable(msgs, func(i, j int) bool {
			return parseTimestamp(msgs[i]).Before(parseTimestamp(msgs[j]))
		})
		first := msgs[0]
		title := jsonutil.FlexibleString(first["query"])
		if len([]rune(title)) > sessionTitleLength {
			title = string([]rune(title)[:sessionTitleLength]) + "..."
		}
		sessions = append(sessions, models.Session{
			SessionID:    id,
			Title:        title,
			Query:        jsonutil.FlexibleString(first["query"]),
			MessageCount: len(msgs),
			FirstMessage: parseTimestamp(first),
			LastMessage:  parseTimestamp(msgs[len(msgs)-1]),
		})
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastMessage.After(sessions[j].LastMessage)
	})

	if offset >= len(sessions) {
		return nil
	}
	sessions = sessions[offset:]
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions
}

// SessionMessages returns a session's exchanges as an ordered
// user/assistant message stream.
func (s *ConversationService) SessionMessages(userID int, sessionID string) []models.Message {
	rows := s.store.Query(conversationsTable, map[string]any{
		"user_id":         userID,
		"conversation_id": sessionID,
	})
	sort.SliceStable(rows, func(i, j int) bool {
		return parseTimestamp(rows[i]).Before(parseTimestamp(rows[j]))
	})

	messages := make([]models.Message, 0, len(rows)*2)
	for _, row := range rows {
		ts := parseTimestamp(row)
		messages = append(messages, models.Message{
			Role:      "user",
			Content:   jsonutil.FlexibleString(row["query"]),
			Timestamp: ts,
		})
		assistant := models.Message{
			Role:      "assistant",
			Content:   jsonutil.FlexibleString(row["response"]),
			Timestamp: ts,
		}
		if chart, ok := row["chart_spec"].(*models.ChartSpec); ok {
			assistant.ChartSpec = chart
		}
		messages = append(messages, assistant)
	}
	return messages
}

// DeleteSession removes every exchange in a session owned by the user.
func (s *ConversationService) DeleteSession(ctx context.Context, userID int, sessionID string) (int, error) {
	rows := s.store.Query(conversationsTable, map[string]any{
		"user_id":         userID,
		"conversation_id": sessionID,
	})

	deleted := 0
	for _, row := range rows {
		if err := s.store.Delete(ctx, conversationsTable, row["id"]); err != nil {
			return deleted, fmt.Errorf("failed to delete session %s: %w", sessionID, err)
		}
		deleted++
	}
	s.logger.Info("Session deleted",
		zap.String("session_id", sessionID),
		zap.Int("messages", deleted),
	)
	return deleted, nil
}

// SubmitFeedback records a rating against a stored assistant message.
func (s *ConversationService) SubmitFeedback(ctx context.Context, userID int, messageID, rating, comment string) (string, error) {
	if rating != "positive" && rating != "negative" {
		return "", fmt.Errorf("failed to submit feedback: invalid rating %q", rating)
	}

	id := uuid.NewString()
	rec := models.Record{
		"feedback_id": id,
		"user_id":     userID,
		"message_id":  messageID,
		"rating":      rating,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}
	if comment != "" {
		rec["comment"] = comment
	}

	if _, err := s.store.Insert(ctx, feedbackTable, rec); err != nil {
		return "", fmt.Errorf("failed to submit feedback: %w", err)
	}
	return id, nil
}

func parseTimestamp(row models.Record) time.Time {
	ts, err := time.Parse(time.RFC3339, jsonutil.FlexibleString(row["timestamp"]))
	if err != nil {
		return time.Time{}
	}
	return ts
}
