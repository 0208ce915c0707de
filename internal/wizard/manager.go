package wizard

import (
	"sync"

	"go.uber.org/zap"
)

// Manager 按用户维护会话，同一用户同时只有一个逻辑会话
type Manager struct {
	mu       sync.Mutex
	cfg      Config
	saver    Saver
	notifier CompletionNotifier
	logger   *zap.Logger
	sessions map[string]*Session
}

func NewManager(cfg Config, saver Saver, notifier CompletionNotifier, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:      cfg,
		saver:    saver,
		notifier: notifier,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Get 获取已有会话
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	return sess, ok
}

// GetOrCreate 获取或创建会话。创建不会启动个性化阶段，
// 只有走到个性化步骤才会。
func (m *Manager) GetOrCreate(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[userID]; ok {
		return sess, false
	}

	sess := NewSession(userID, m.cfg, m.saver, m.notifier)
	m.sessions[userID] = sess

	m.logger.Info("Onboarding session created",
		zap.String("session_id", sess.ID()),
		zap.String("user_id", userID),
	)
	return sess, true
}

// Remove 拆除并移除会话
func (m *Manager) Remove(userID string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if !ok {
		return false
	}

	sess.Close()
	m.logger.Info("Onboarding session removed",
		zap.String("session_id", sess.ID()),
		zap.String("user_id", userID),
	)
	return true
}

// Shutdown 服务下线时拆除所有会话
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, sess := range m.sessions {
		sessions = append(sessions, sess)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}

	if len(sessions) > 0 {
		m.logger.Info("All onboarding sessions closed", zap.Int("count", len(sessions)))
	}
}
