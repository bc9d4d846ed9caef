// Package database provides the SQLite run history for siruta.
//
// RunDB stores one row per run and one row per county document of that
// run: its final status, HTTP status code, number of merged records and
// the SHA3-256 digest of the downloaded body. Comparing digests across
// runs tells which county documents the ministry republished.
//
// The database uses modernc.org/sqlite, a CGO-free driver, and lives in a
// single file in the XDG data directory unless another directory is given.
package database
