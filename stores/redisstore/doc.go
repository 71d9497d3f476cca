// Package redisstore implements the banned-token and 2FA challenge stores
// on Redis. Every entry is written with a native TTL so Redis itself
// evicts expired state; no process-side sweeper is needed.
//
// Keys:
//
//	banned_token:<token>   value "1"
//	two_fa_code:<email>    versioned binary challenge record
//
// Both stores accept a redis.UniversalClient, so standalone, sentinel and
// cluster deployments work unchanged.
package redisstore
