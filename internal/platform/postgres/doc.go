// Package postgres provides the PostgreSQL implementation of
// store.MeetingStore together with the embedded schema migrations.
//
// Stores accept a store.DBTX, so the same code runs against a *sql.DB opened
// with the pgx stdlib driver or against a *sql.Tx.
package postgres
