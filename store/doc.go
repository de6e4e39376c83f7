// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store declares the repository interfaces the handlers depend on.

# Backends

Two implementations satisfy Store:

  - store/mongostore: MongoDB collections admins, voters, candidates, elections
  - store/sqlstore: PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite)

Pick one with DATABASE_TYPE (mongo, postgres, sqlite).

# Errors

Repositories report lookups by key that match nothing with ErrNotFound,
unique index violations with ErrDuplicate, and a second vote by the same
voter in the same election with ErrAlreadyVoted. Anything else is a
backend failure wrapped with context.

# Vote Recording

Elections.RecordVote is the only write that must be atomic. The marker
check and the tally increment happen in a single conditional operation
so that two concurrent requests from one voter cannot both succeed.
*/
package store
