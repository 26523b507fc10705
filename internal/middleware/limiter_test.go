package middleware

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestLimiter_Sweep истёкшие окна удаляются, активные остаются
func TestLimiter_Sweep(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newLimiter(5, time.Minute)

	for i := 0; i < 100; i++ {
		l.allow(fmt.Sprintf("10.0.0.%d", i), start)
	}
	assert.Equal(t, 100, l.size())

	// в пределах окна чистка не запускается
	l.allow("10.0.1.1", start.Add(30*time.Second))
	assert.Equal(t, 101, l.size())

	_, ok := l.allow("10.0.1.1", start.Add(2*time.Minute))
	assert.True(t, ok)
	assert.Equal(t, 1, l.size())
}

// TestLimiter_Window тестирует лимит и сброс окна
func TestLimiter_Window(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newLimiter(2, time.Minute)

	_, ok := l.allow("ip", start)
	assert.True(t, ok)
	info, ok := l.allow("ip", start.Add(time.Second))
	assert.True(t, ok)
	assert.Equal(t, 2, info.count)

	_, ok = l.allow("ip", start.Add(2*time.Second))
	assert.False(t, ok)

	info, ok = l.allow("ip", start.Add(61*time.Second))
	assert.True(t, ok)
	assert.Equal(t, 1, info.count)
}
