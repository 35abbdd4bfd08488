package publisher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stipend/internal/audit"
	auditstore "stipend/internal/audit/store"
)

func TestPublish_Sync(t *testing.T) {
	store := auditstore.NewInMemory()
	p := New(store)

	p.Publish(context.Background(), audit.Event{
		FamilyOfficeID: 1,
		Email:          "smith@demo.com",
		Action:         audit.ActionLoginSucceeded,
	})

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionLoginSucceeded, events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublish_AsyncDrainsOnClose(t *testing.T) {
	store := auditstore.NewInMemory()
	p := New(store, WithAsyncBuffer(16))

	for i := 0; i < 5; i++ {
		p.Publish(context.Background(), audit.Event{Action: audit.ActionRunSubmitted})
	}
	p.Close()

	assert.Len(t, store.Events(), 5)
}
