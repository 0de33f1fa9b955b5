// Package redis caches stored study sessions in Redis.
//
// The cache sits in front of the PostgreSQL session store. Entries expire at
// the next UTC midnight, when a new study day makes every cached selection
// stale.
package redis
