// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: SQLite DSN, PostgreSQL connection string or Mongo URI (required)
  - DatabaseType: sqlite, postgres or mongo (default: sqlite)
  - DatabaseName: Mongo database name (default: evote)
  - SessionSecret: Secret for session cookie HMAC (required)
  - SessionStore: memory or redis (default: memory)
  - RedisURL: Redis URL (required when SessionStore is redis)
  - SessionTTL: Session lifetime (default: 12h)
  - SecureCookies: Set the Secure attribute on the session cookie
  - AdminIdentity, AdminName, AdminDOB: Optional admin seeded at startup

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d (MONGO_URI also accepted for mongo)
	DATABASE_TYPE  → -t
	DATABASE_NAME  → -db-name
	SESSION_SECRET → -session-secret
	SESSION_STORE  → -session-store
	REDIS_URL      → -redis-url
	SESSION_TTL    → -session-ttl
	SECURE_COOKIES → -secure-cookies
	ADMIN_IDENTITY → -admin-identity
	ADMIN_NAME     → -admin-name
	ADMIN_DOB      → -admin-dob

CLI flags take precedence over environment variables. main loads a .env
file into the environment before parsing.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - SESSION_SECRET must be provided
  - REDIS_URL must be provided for the redis session store
  - ADMIN_DOB must be a YYYY-MM-DD date when ADMIN_IDENTITY is set
*/
package cliparse
