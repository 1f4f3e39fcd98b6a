// Package runtime wires the durable storage, roster store, and event feed
// into a single handle shared by the services and transports.
//
//	rt, err := runtime.Open(runtime.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	if err != nil { /* handle */ }
//	defer rt.Close()
//	st := rt.Store()
//	feed := rt.Feed()
package runtime
