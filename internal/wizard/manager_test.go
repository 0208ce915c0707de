package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerGetOrCreate(t *testing.T) {
	m := NewManager(testConfig(), nil, nil, nil)

	sess, created := m.GetOrCreate("u1")
	require.NotNil(t, sess)
	assert.True(t, created)

	// 同一个用户拿回同一个会话
	again, created := m.GetOrCreate("u1")
	assert.False(t, created)
	assert.Same(t, sess, again)

	other, created := m.GetOrCreate("u2")
	assert.True(t, created)
	assert.NotSame(t, sess, other)
}

func TestManagerRemove(t *testing.T) {
	m := NewManager(testConfig(), nil, nil, nil)

	assert.False(t, m.Remove("missing"))

	sess, _ := m.GetOrCreate("u1")
	assert.True(t, m.Remove("u1"))

	// 拆掉的会话不再接受操作
	moved, _ := sess.Advance()
	assert.False(t, moved)

	_, ok := m.Get("u1")
	assert.False(t, ok)
}

func TestManagerShutdown(t *testing.T) {
	m := NewManager(testConfig(), nil, nil, nil)

	a, _ := m.GetOrCreate("u1")
	b, _ := m.GetOrCreate("u2")

	m.Shutdown()

	for _, sess := range []*Session{a, b} {
		moved, _ := sess.Advance()
		assert.False(t, moved)
	}
	_, ok := m.Get("u1")
	assert.False(t, ok)
}
