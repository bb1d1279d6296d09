package notify_test

import (
	"sync"
	"testing"
	"time"

	"github.com/kubukshop/storefront/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPush(t *testing.T) {
	t.Run("Success - Kinds And Display Order", func(t *testing.T) {
		notifier := notify.New(time.Minute, time.Minute)
		defer notifier.Close()

		notifier.Success("товар добавлен")
		notifier.Error("сервер недоступен")
		notifier.Warn("необходимо войти")

		active := notifier.Active()
		require.Len(t, active, 3)
		assert.Equal(t, notify.KindSuccess, active[0].Kind)
		assert.Equal(t, notify.KindError, active[1].Kind)
		assert.Equal(t, notify.KindWarning, active[2].Kind)
		assert.Equal(t, "товар добавлен", active[0].Message)
	})

	t.Run("Success - Subscribers See Show And Dismiss", func(t *testing.T) {
		notifier := notify.New(time.Minute, time.Minute)
		defer notifier.Close()

		var mu sync.Mutex
		var events []notify.Event
		notifier.Subscribe(func(e notify.Event) {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		})

		id := notifier.Success("готово")
		notifier.Dismiss(id)

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, events, 2)
		assert.False(t, events[0].Dismissed)
		assert.True(t, events[1].Dismissed)
		assert.Equal(t, "готово", events[1].Notification.Message)
	})
}

func TestAutoDismiss(t *testing.T) {
	notifier := notify.New(20*time.Millisecond, 40*time.Millisecond)
	defer notifier.Close()

	notifier.Success("короткое")
	notifier.Error("подольше")

	require.Len(t, notifier.Active(), 2)

	assert.Eventually(t, func() bool {
		active := notifier.Active()

		return len(active) == 1 && active[0].Kind == notify.KindError
	}, time.Second, 5*time.Millisecond, "success should dismiss first")

	assert.Eventually(t, func() bool {
		return len(notifier.Active()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestDismiss(t *testing.T) {
	notifier := notify.New(time.Minute, time.Minute)
	defer notifier.Close()

	id := notifier.Success("готово")

	notifier.Dismiss(id)
	notifier.Dismiss(id)
	notifier.Dismiss(999)

	assert.Empty(t, notifier.Active())
}
