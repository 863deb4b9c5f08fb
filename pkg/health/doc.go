// Package health serves liveness and readiness probes.
//
// LivenessHandler always answers OK. ReadinessHandler runs named checks
// concurrently under a shared timeout and answers 503 when any fails.
// frame.WithHealthChecks mounts both on the application:
//
//	frame.WithHealthChecks(
//	    frame.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    frame.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
//
// Responses are plain text ("OK" or "Service Unavailable") unless the client
// sends Accept: application/json or ?format=json:
//
//	{"status":"unhealthy","checks":{"db":{"status":"healthy"},"redis":{"status":"unhealthy","error":"..."}}}
package health
