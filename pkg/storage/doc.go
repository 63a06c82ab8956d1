/*
Package storage persists the nurse-duty documents.

Each collection is one whole JSON document: the nurse roster, the formula
schedules, the scheduling settings and the monthly schedule archive. Every
operation reads the document, changes it in memory and writes the complete
document back. There is no cache and no partial update.

# Architecture

	┌──────────────────── DOCUMENT STORE ───────────────────────┐
	│                                                            │
	│  ┌─────────────────────────────────────────────┐          │
	│  │            DocumentStore                     │          │
	│  │  - per-collection mutex                      │          │
	│  │  - defaults for absent documents             │          │
	│  │  - metrics + document.saved events           │          │
	│  └──────────────────┬──────────────────────────┘          │
	│                     │ Backend                              │
	│     ┌───────────────┼────────────────┬──────────────┐     │
	│     ▼               ▼                ▼              ▼     │
	│  FileBackend    BoltBackend    RedisBackend   MemoryBackend│
	│  <dir>/<key>    bucket         <prefix><key>  map (tests) │
	│  .json          "documents"                               │
	└────────────────────────────────────────────────────────────┘

# Documents

	nurses.json             {"nurses": [ {...}, ... ]}
	formula_schedules.json  [ {"type": "...", "formula_data": [...]}, ... ]
	settings.json           {"regularGroupCount": 3, ...}
	monthly_schedule.json   {"2024": {"1": {"year": 2024, "month": 1, ...}}}

Documents are written as UTF-8 JSON with a two-space indent. Non-ASCII text
is stored as-is. The file backend writes through a temp file and a rename,
so a reader sees either the old document or the new one.

# Absent documents

What a missing document means depends on the collection:

  - nurses: NotFoundError with ScopeDocument
  - formula_schedules: an empty list
  - settings: NotFoundError, also when the document is {}
  - monthly_schedule: NotFoundError with ScopeDocument; a missing year or
    month is ScopeEntry

Use errors.Is(err, ErrNotFound) to test for any of them. Backend failures
and undecodable documents come back as *IOError.

# Seeding

Seed writes an empty schedule for each of the four formula types and an
empty settings object when those documents are absent. The roster is never
seeded; it is imported with ImportRoster.

# Usage

	store := storage.NewDocumentStore(
		storage.NewFileBackend("data"),
		storage.WithPublisher(broker),
	)
	if _, err := store.Seed(); err != nil {
		return err
	}

	group := 2
	err := store.UpdateNurse(7, types.NursePatch{Group: &group})
	if errors.Is(err, storage.ErrNotFound) {
		// no such nurse
	}

# Concurrency

Operations on the same collection are serialized inside one process.
Nothing coordinates two processes sharing a data directory or database.
Watcher reports file changes in the data directory, including edits made
by hand while the server runs.
*/
package storage
