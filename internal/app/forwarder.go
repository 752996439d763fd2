package app

import (
	"context"

	"github.com/five82/docket/internal/state"
	"github.com/five82/docket/internal/ui"
)

// StartForwarder launches a goroutine that sends a fresh snapshot to the
// program whenever the store signals a change. Key presses already refresh
// the model directly; this path carries changes nobody typed, such as the
// undo buffer expiring. It returns immediately.
func StartForwarder(ctx context.Context, store *state.Store, sender ui.Sender) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-store.Changes():
				sender.Send(ui.SnapshotMsg(store.Snapshot()))
			}
		}
	}()
}
