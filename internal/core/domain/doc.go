// Package domain contains the core types of the o365 CLI: the persisted
// token record, the typed resource shapes returned by the Graph API
// (messages, chats, events, drive items, contacts), and the canonical
// search result. Types here carry no I/O; parsing from the wire happens
// once at the connector boundary.
package domain
