package ledgercore

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// FileStore is a Repository backed by a single file of concatenated
// fixed-size records. There is no index; every lookup is a forward scan.
// That keeps the format trivial and offset arithmetic exact: record i
// lives at byte i*RecordSize.
type FileStore struct {
	path string
	log  *zerolog.Logger
}

var (
	_ Repository = (*FileStore)(nil)
)

// NewFileStore opens a store at path. The file may be absent (empty
// store); if present, its length must be an exact multiple of
// RecordSize.
func NewFileStore(path string, log *zerolog.Logger) (*FileStore, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, ErrStoreUnavailable{Path: path, Err: err}
		}
	} else if fi.Size()%RecordSize != 0 {
		return nil, fmt.Errorf("store %s is torn: %d bytes is not a multiple of %d", path, fi.Size(), RecordSize)
	}

	fs := &FileStore{
		path: path,
		log:  log,
	}
	return fs, nil
}

func (fs *FileStore) Exists(id int64) (bool, error) {
	var found bool
	err := fs.Scan(func(acct Account, _ int64) (bool, error) {
		if acct.ID == id {
			found = true
			return true, nil
		}
		return false, nil
	})
	return found, err
}

func (fs *FileStore) Lookup(id int64) (*Account, error) {
	var match *Account
	err := fs.Scan(func(acct Account, _ int64) (bool, error) {
		if acct.ID == id {
			match = &acct
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrNotFound{ID: id}
	}
	return match, nil
}

func (fs *FileStore) Scan(fn func(acct Account, offset int64) (bool, error)) error {
	f, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ErrStoreUnavailable{Path: fs.path, Err: err}
	}
	defer f.Close()

	buf := make([]byte, RecordSize)
	var off int64
	for {
		if _, err = io.ReadFull(f, buf); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("store %s is torn at offset %d", fs.path, off)
			}
			return fmt.Errorf("read record at offset %d: %w", off, err)
		}
		acct, ok := decodeRecord(buf)
		if !ok {
			return fmt.Errorf("decode record at offset %d", off)
		}
		stop, err := fn(acct, off)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		off += RecordSize
	}
}

func (fs *FileStore) UpdateAt(offset int64, acct Account) error {
	if offset < 0 || offset%RecordSize != 0 {
		return fmt.Errorf("offset %d does not address a record", offset)
	}

	f, err := os.OpenFile(fs.path, os.O_RDWR, 0o644)
	if err != nil {
		return ErrStoreUnavailable{Path: fs.path, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if offset+RecordSize > fi.Size() {
		return fmt.Errorf("offset %d past end of store (%d bytes)", offset, fi.Size())
	}

	if _, err = f.WriteAt(encodeRecord(nil, acct), offset); err != nil {
		return fmt.Errorf("write record at offset %d: %w", offset, err)
	}
	return nil
}

func (fs *FileStore) Append(acct Account) error {
	ok, err := fs.Exists(acct.ID)
	if err != nil {
		return err
	}
	if ok {
		return ErrDuplicateID{ID: acct.ID}
	}

	f, err := os.OpenFile(fs.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return ErrStoreUnavailable{Path: fs.path, Err: err}
	}
	defer f.Close()

	if _, err = f.Write(encodeRecord(nil, acct)); err != nil {
		return fmt.Errorf("append record for account %d: %w", acct.ID, err)
	}
	fs.log.Debug().Int64("acct", acct.ID).Msg("record appended")
	return nil
}

// Bootstrap seeds the reserved fee-collector account when the store does
// not yet hold it. Existing stores pass through untouched.
func (fs *FileStore) Bootstrap(collector Account) error {
	ok, err := fs.Exists(collector.ID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if err = fs.Append(collector); err != nil {
		return err
	}
	fs.log.Info().Int64("acct", collector.ID).Msg("fee collector account created")
	return nil
}
