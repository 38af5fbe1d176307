package db

import "log"

// Closer is satisfied by sqldb.Client and kvdb.Client.
type Closer interface {
	Close() error
}

// CloseClient shuts down a database client at application exit,
// logging instead of failing: there is nothing left to do with the error.
func CloseClient(name string, c Closer) {
	if c == nil {
		log.Printf("[INFO] `%s` Nothing to Close", name)
		return
	}
	if err := c.Close(); err != nil {
		log.Printf("[WARN] Failed to Close `%s`: %v", name, err)
	} else {
		log.Printf("[INFO] `%s` Closed", name)
	}
}
