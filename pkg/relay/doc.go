// Package relay is the event bus UI components use to ask stores for work ("save this
// record", "remove that one", "the dialog closed").
//
// A Bus is an ordinary value passed to whoever needs it. Topics are typed: a Topic[T]
// only carries T payloads, so an emitter and a listener cannot disagree on the payload
// shape.
//
// Every topic has at most one subscriber. Registering a second handler on a topic that
// is held fails with constants.ErrTopicInUse; the holder must release its Subscription
// first. Emit calls the handler synchronously on the caller's goroutine and returns its
// error.
//
// Subscriptions are released with Close, which is idempotent. Scoped and Group tie the
// release to a function or a component lifetime so that no exit path leaks a handler:
//
//	err := relay.Scoped(bus, events.DialogHidden, onHide, func() error {
//	    return dialog.Run(ctx)
//	})
package relay
