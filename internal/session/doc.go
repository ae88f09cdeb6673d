// Package session scopes store work to a session that is created on demand.
//
// Functions that touch the store take an optional Session. Callers that
// already hold one pass it through and keep control of commit and close;
// callers that pass nil get a session that lives exactly as long as the
// call.
package session
