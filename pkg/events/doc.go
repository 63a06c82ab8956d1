/*
Package events provides an in-memory broker for document change notifications.

The storage package publishes EventDocumentSaved after every successful write
and EventDocumentSeeded when startup seeding creates a document. The storage
watcher publishes EventDocumentChanged when a file in the data directory is
created, written or removed, which includes edits made by hand while the
server is running (the roster is seeded that way).

	Store / Watcher ──Publish──▶ eventCh (100) ──broadcast──▶ Subscriber (50 each)

Delivery is best effort: a subscriber whose buffer is full misses the event.
Publish never blocks once the broker is stopped.

Usage:

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	go func() {
		for ev := range sub {
			logger.Info().Str("collection", ev.Collection).Msg(string(ev.Type))
		}
	}()

Code that only needs to publish takes a Publisher. Discard is a Publisher that
drops everything and is the default when no broker is wired.
*/
package events
