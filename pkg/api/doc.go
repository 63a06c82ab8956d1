/*
Package api implements the nurse-duty HTTP API.

The server is a thin layer over storage.Store: each route decodes and
validates the request, calls one store operation and writes JSON back.
Errors are always {"detail": "..."}.

# Routes

	GET  /api/nurses                               roster
	PUT  /api/nurses/{id}                          {"group": 2, "active": true}
	POST /api/nurses/reset-groups
	GET  /api/formula                              all formula schedules
	POST /api/formula                              replace all formula schedules
	GET  /api/settings
	POST /api/settings
	POST /api/monthly-schedule                     upsert one month
	GET  /api/monthly-schedule/{year}/{month}
	GET  /api/monthly-schedule/{year}/{month}/export   xlsx workbook
	GET  /health, /ready, /metrics

# Status codes

  - 400: malformed JSON or a non-integer path parameter
  - 404: storage.ErrNotFound; the detail names what is missing
  - 405: wrong method for the path, with an Allow header
  - 422: a required field is missing or has the wrong type, or an export
    is asked for a month outside 1..12
  - 429: the client exceeded the configured rate limit
  - 500: the backend failed; the cause is logged, not returned

# Middleware

Requests pass through logging and metrics, CORS, then the per-IP rate
limiter. CORS answers preflight requests itself with 204. The rate limiter
is off unless Config.RequestsPerSecond is set.

# Usage

	store := storage.NewDocumentStore(storage.NewFileBackend("data"))
	srv := api.NewServer(store, api.Config{Addr: ":8000"})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal(err.Error())
		}
	}()

	<-ctx.Done()
	_ = srv.Shutdown(context.Background())
*/
package api
