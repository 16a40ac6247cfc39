// Package session defines the learner-session data model consumed by the
// classification and governance engine: interactions, session events, and
// the derived metrics the cognitive tracker and risk analyst need.
//
// # Overview
//
// A session is an ordered stream of events (messages, code submissions,
// test results, AI responses, learner critiques). The engine never mutates
// a session; it only reads the history supplied by the caller.
//
// The package also provides a SQLite-backed History store that collaborators
// can use as the session-history provider:
//
//	store, err := session.NewSQLiteStore(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	history, err := store.LoadHistory(ctx, sessionID)
//
// The store uses the CGo-free modernc.org/sqlite driver so it can be
// embedded in services without a C toolchain.
package session
