// Package server exposes the portal's HTTP surface: task CRUD, the
// bounded log tail endpoint, and the websocket log follower. Every
// request passes through the access-log middleware, which makes the
// server its own busiest log producer.
package server
