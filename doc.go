// Package main provides the entry point for the gestao-obras back office.
// It runs a JSON REST API using the Fiber framework covering clients,
// contracts, work budgets, expenses, material prices, maintenance test logs
// and administrative user/group/permission management. The application uses
// gorm for data persistence and ships a scheduled ZIP backup worker for the
// project data directory.
package main
