// Package store implements the durable persistence layer for rosters: live
// snapshots, closed-session archives, and per-user attendance stats, all in
// Pebble under lexicographically sortable key prefixes.
//
//	st := store.Open(db)
//	_ = st.SaveRoster(ctx, r)
//	all, _ := st.LoadAll(ctx)       // startup repopulation
//	_ = st.Archive(ctx, closed)     // atomic live→history move
package store
