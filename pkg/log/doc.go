/*
Package log provides structured logging for nurseduty using zerolog.

A single global Logger is configured once by Init, from the log section of the
config file or the serve flags. Packages derive child loggers instead of
building their own:

	storeLog := log.WithComponent("storage")
	storeLog.Info().Str("collection", "nurses").Msg("document saved")

	rosterLog := log.WithCollection("nurses")
	rosterLog.Debug().Int("nurse_id", 3).Msg("patch applied")

Output is JSON when JSONOutput is set and a human console format otherwise:

	{"level":"info","component":"api","method":"GET","path":"/api/nurses","status":200,"time":"2024-10-13T10:30:00Z","message":"request"}

	2024-10-13T10:30:00Z INF request component=api method=GET path=/api/nurses status=200

Level strings from configuration go through ParseLevel, which accepts
"warning" as an alias and falls back to info for anything it does not know.
*/
package log
