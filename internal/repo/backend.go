package repo

// Backend bundles one implementation of every repository. The store and the
// auth service only ever see a Backend, so the postgres, sqlite and memory
// implementations are interchangeable.
type Backend struct {
	Users        UserRepo
	Trips        TripRepo
	Destinations DestinationRepo
	Activities   ActivityRepo
	Notes        NoteRepo
}

// NewPostgresBackend wires every Postgres repo to the same connection.
// Passing a pgx.Tx keeps all repos inside one transaction, which the
// integration tests rely on for rollback isolation.
func NewPostgresBackend(db db) Backend {
	return Backend{
		Users:        NewUserRepo(db),
		Trips:        NewTripRepo(db),
		Destinations: NewDestinationRepo(db),
		Activities:   NewActivityRepo(db),
		Notes:        NewNoteRepo(db),
	}
}
