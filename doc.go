// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the EMS election server.

EMS manages voter and candidate registries, schedules non-overlapping
elections and records one vote per voter per election. Admins run the
registries and the schedule; voters browse active elections, vote and
read results.

# Starting the Server

With no configuration the server uses a local SQLite file:

	SESSION_SECRET=... DATABASE_URL="file:ems.db" go run .

PostgreSQL or MongoDB instead:

	go run . -t postgres -d "postgres://..."
	go run . -t mongo -d "mongodb://localhost:27017" -db-name evote

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - SESSION_SECRET (-session-secret): HMAC key for session cookies
  - DATABASE_URL (-d): connection string (MONGO_URI is read for mongo)

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite, postgres or mongo (default: sqlite)
  - DATABASE_NAME (-db-name): Mongo database (default: evote)
  - SESSION_STORE (-session-store): memory or redis (default: memory)
  - REDIS_URL (-redis-url): required for the redis session store
  - SESSION_TTL (-session-ttl): session lifetime (default: 12h)
  - SECURE_COOKIES (-secure-cookies): mark cookies Secure
  - ADMIN_IDENTITY, ADMIN_NAME, ADMIN_DOB: admin created at startup if missing

# Architecture

  - handlers: HTTP request handlers (auth, voters, candidates, elections, voting, results)
  - router: Route definitions and access gates using Go 1.22+ routing
  - middleware: Sessions, CORS, logging, metrics, JSON envelopes
  - store: Persistence contracts, with sqlstore and mongostore backends
  - session: Server-side sessions in memory or Redis
  - auth: Session tokens, cookie signing and credential checks
  - metrics: Prometheus collectors
  - models: Request/response and domain types
  - db: SQL schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
