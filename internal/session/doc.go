// Package session keeps the wizard sessions of a running server and issues
// the signed tokens that grant access to them.
//
// Sessions exist only in process memory. Each one owns a wizard.Machine; a
// token's subject is the id of the session it was issued for.
package session
