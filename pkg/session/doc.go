// Package session provides server-side sessions with read-once flash
// messages and two stores: an in-process MemoryStore and a RedisStore.
//
// The session cookie only carries the session ID; values stay on the
// server. Sessions are usually managed by the framework through
// frame.WithSession, and handlers use the Context helpers:
//
//	c.SetFlash("status", "Saved")
//	msg, _ := c.Flash("status") // "Saved", then gone
//
// Standalone usage:
//
//	store := session.NewRedisStore(client, session.WithRedisPrefix("app:sess:"))
//	sess := session.New(uuid.NewString(), time.Now().Add(24*time.Hour))
//	sess.SetValue("user_id", "42")
//	err := store.Create(ctx, sess)
package session
