/*
Package session implements session management and persistence orchestration.

It layers the stateless mapping engine over a StateStore: every operation
loads the session state, runs the engine, and saves mutations back. A
per-session lock (optionally distributed) serializes concurrent access.
*/
package session
