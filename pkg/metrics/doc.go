/*
Package metrics exposes Prometheus metrics and health endpoints for nurseduty.

Collectors are package-level and registered with the default registry in
init(). Handler serves them in the Prometheus text format on /metrics.

# Metrics

Store:

	nurseduty_store_operations_total{collection,operation,result}
	nurseduty_store_operation_duration_seconds{collection,operation}
	nurseduty_document_events_total{type,collection}
	nurseduty_roster_nurses{state}

API:

	nurseduty_api_requests_total{method,route,status}
	nurseduty_api_request_duration_seconds{method,route}

The result label is one of ResultOK, ResultNotFound or ResultError. The route
label is the registered mux pattern, not the raw path, so nurse ids and
schedule dates do not create new series.

# Timing

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.StoreOperationDuration, "nurses", "update_nurse")

# Roster Gauges

The roster is seeded and edited outside the server, so Collector polls a
RosterCounter on an interval in addition to the updates the store makes on
every roster read and write.

# Health

RegisterComponent records component health. GetHealth is unhealthy when any
component is; GetReadiness only considers DefaultCriticalComponents (storage
and api) and reports not_ready until both are registered and healthy.
*/
package metrics
