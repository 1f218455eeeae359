// Package store persists conversation transcripts.
//
// Values are stored as JSON through an Adapter. Two adapters are provided:
// MemoryAdapter for tests and one-off runs, and SQLiteAdapter which keeps a
// single kv table in a SQLite file.
//
//	db, err := store.OpenSQLite(ctx, "parley.db")
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	transcripts := store.NewTranscripts(db)
//	id, err := transcripts.Save(ctx, store.Transcript{
//	    Kind:     "alert",
//	    Messages: result.Messages(),
//	    Outcome:  string(result.Termination),
//	})
package store
