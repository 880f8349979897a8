package notification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-backoffice/internal/common/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepo struct {
	NotificationRepository
	mu    sync.Mutex
	items []Notification
	keys  map[string]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{keys: map[string]bool{}}
}

func (m *memoryRepo) Create(ctx context.Context, n *Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := n.UserID + "|" + n.EventID
	if m.keys[key] {
		return ErrAlreadyDelivered
	}
	m.keys[key] = true
	m.items = append(m.items, *n)
	return nil
}

type fakeConn struct {
	written []interface{}
	fail    bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.fail {
		return errors.New("broken pipe")
	}
	f.written = append(f.written, v)
	return nil
}

func TestRecipients(t *testing.T) {
	assert.Equal(t, []string{"B"}, Recipients("B", "A", "A"))
	assert.Equal(t, []string{"B", "A"}, Recipients("B", "A", "C"))
	assert.Equal(t, []string{"A"}, Recipients("B", "A", "B"))
	assert.Empty(t, Recipients("A", "A", "A"))
	assert.Equal(t, []string{"A"}, Recipients("A", "A", "C"))
	assert.Equal(t, []string{"B"}, Recipients("B", "", "C"))
}

func TestNotifyIsAtMostOncePerEvent(t *testing.T) {
	repo := newMemoryRepo()
	hub := NewHub(zap.NewNop())
	conn := &fakeConn{}
	hub.Register("B", conn)
	svc := NewNotificationService(repo, hub)
	lead := LeadRef{ID: "L", Name: "Carla"}

	require.NoError(t, svc.Notify(context.Background(), "B", lead, "Lead Carla assigned to you", "Ana", "evt-1"))
	require.NoError(t, svc.Notify(context.Background(), "B", lead, "Lead Carla assigned to you", "Ana", "evt-1"))
	require.NoError(t, svc.Notify(context.Background(), "B", lead, "Lead Carla moved", "Ana", "evt-2"))

	assert.Len(t, repo.items, 2)
	assert.Len(t, conn.written, 2)
	assert.Equal(t, "L", repo.items[0].LeadID)
	assert.False(t, repo.items[0].Read)
}

func TestNotifyValidates(t *testing.T) {
	svc := NewNotificationService(newMemoryRepo(), NewHub(zap.NewNop()))

	assert.True(t, errs.Is(svc.Notify(context.Background(), "", LeadRef{}, "x", "a", "e"), errs.KindValidation))
	assert.True(t, errs.Is(svc.Notify(context.Background(), "B", LeadRef{}, "x", "a", ""), errs.KindValidation))
}

func TestHubDropsBrokenConnections(t *testing.T) {
	hub := NewHub(zap.NewNop())
	good := &fakeConn{}
	bad := &fakeConn{fail: true}
	hub.Register("B", good)
	hub.Register("B", bad)

	hub.Publish("B", Notification{ID: "n1"})

	assert.Equal(t, 1, hub.Connections("B"))
	assert.Len(t, good.written, 1)

	hub.Unregister("B", good)
	assert.Equal(t, 0, hub.Connections("B"))
}

// exclusiveConn fails the write when another write on it is still in flight.
type exclusiveConn struct {
	inFlight int32
	overlaps int32
	writes   int32
}

func (c *exclusiveConn) WriteJSON(v interface{}) error {
	if atomic.AddInt32(&c.inFlight, 1) > 1 {
		atomic.AddInt32(&c.overlaps, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.writes, 1)
	atomic.AddInt32(&c.inFlight, -1)
	return nil
}

func TestHubSerializesWritesPerConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &exclusiveConn{}
	hub.Register("B", conn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Publish("B", Notification{ID: "n"})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), atomic.LoadInt32(&conn.overlaps))
	assert.Equal(t, int32(8), atomic.LoadInt32(&conn.writes))
	assert.Equal(t, 1, hub.Connections("B"))
}
