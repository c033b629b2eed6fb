package entities

import (
	"context"
	"strings"

	"github.com/dyluth/dogroom/internal/domain"
	"github.com/dyluth/dogroom/pkg/entitystore"
)

// CreateChat opens an empty chat board with the trimmed title.
func (s *Store) CreateChat(ctx context.Context, title string) (domain.ChatBoard, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.ChatBoard{}, entitystore.InvalidArgument(ChatEntity, "title required")
	}
	return s.Chats.Create(ctx, domain.ChatBoard{
		ID:       s.newID(),
		Title:    title,
		Messages: []domain.ChatMessage{},
	})
}

// ListMessages returns the messages of a chat board in send order.
func (s *Store) ListMessages(ctx context.Context, chatID string) ([]domain.ChatMessage, error) {
	board, err := s.Chats.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if board.Messages == nil {
		return []domain.ChatMessage{}, nil
	}
	return board.Messages, nil
}

// SendMessage appends a message to an existing chat board.
func (s *Store) SendMessage(ctx context.Context, chatID, userID, text string) (domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if userID == "" || text == "" {
		return domain.ChatMessage{}, entitystore.InvalidArgument(ChatEntity, "userId and text required")
	}

	msg := domain.ChatMessage{
		ID:     s.newID(),
		ChatID: chatID,
		UserID: userID,
		Text:   text,
		TS:     s.now().UnixMilli(),
	}
	_, err := s.Chats.MutateExisting(ctx, chatID, func(board domain.ChatBoard) (domain.ChatBoard, error) {
		board.Messages = append(board.Messages, msg)
		return board, nil
	})
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return msg, nil
}
