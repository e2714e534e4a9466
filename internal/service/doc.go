// Package service implements business logic for routegraph.
//
// GraphService sits between the HTTP handlers and CLI on one side and the
// repository, optimizer and route cache on the other. It enforces the
// service area on insertion, keys optimized routes by session version and
// handles import/export via codec adapters.
//
// # Event System
//
// Every state change is published on an EventBus; cmd/routegraph forwards
// the bus to the SSE hub so map clients can redraw without polling.
package service
