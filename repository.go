package ledgercore

//go:generate mockgen -source=repository.go -destination=mocks/repository.go -package=mocks

// Repository is the record store: a durable mapping from account id to
// account record. Lookups are linear scans; the first match is
// authoritative since ids are unique in a well-formed store.
type Repository interface {
	// Exists reports whether an account with the given id is present.
	// A missing backing file counts as an empty store, not an error.
	Exists(id int64) (bool, error)

	// Lookup returns the first record with the given id, or ErrNotFound.
	Lookup(id int64) (*Account, error)

	// Scan visits every record in file order together with its byte
	// offset. The walk is forward-only; fn returning stop=true or an
	// error ends it early.
	Scan(fn func(acct Account, offset int64) (stop bool, err error)) error

	// UpdateAt overwrites exactly one record at an offset previously
	// observed via Scan. The caller guarantees the offset still denotes
	// the same logical record.
	UpdateAt(offset int64, acct Account) error

	// Append adds a new record at end-of-file, or fails with
	// ErrDuplicateID if the id is already present.
	Append(acct Account) error
}
