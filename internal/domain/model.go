package domain

import "time"

// ChatSessionModel is the GORM model for chat_sessions table.
type ChatSessionModel struct {
	ID            string    `gorm:"type:varchar(64);primaryKey"`
	Username      string    `gorm:"type:varchar(50);not null"`
	IsActive      bool      `gorm:"not null;default:true"`
	LastMessageAt time.Time `gorm:"index;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for ChatSessionModel.
func (ChatSessionModel) TableName() string {
	return "chat_sessions"
}

// ToDomain converts ChatSessionModel to domain ChatSession.
func (m *ChatSessionModel) ToDomain() *ChatSession {
	return &ChatSession{
		ID:            m.ID,
		Username:      m.Username,
		IsActive:      m.IsActive,
		LastMessageAt: m.LastMessageAt,
		CreatedAt:     m.CreatedAt,
	}
}

// ChatMessageModel is the GORM model for chat_messages table.
type ChatMessageModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	SessionID string    `gorm:"type:varchar(64);index;not null"`
	UserID    *int64    `gorm:""`
	Username  string    `gorm:"type:varchar(50);not null"`
	Message   string    `gorm:"type:text;not null"`
	IsAdmin   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index;autoCreateTime"`
}

// TableName specifies the table name for ChatMessageModel.
func (ChatMessageModel) TableName() string {
	return "chat_messages"
}

// ToDomain converts ChatMessageModel to domain ChatMessage.
func (m *ChatMessageModel) ToDomain() *ChatMessage {
	return &ChatMessage{
		ID:        m.ID,
		SessionID: m.SessionID,
		UserID:    m.UserID,
		Username:  m.Username,
		Message:   m.Message,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
	}
}

// AdminUserModel is the GORM model for admin_users table.
type AdminUserModel struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string    `gorm:"type:varchar(50);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for AdminUserModel.
func (AdminUserModel) TableName() string {
	return "admin_users"
}
