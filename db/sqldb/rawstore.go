package sqldb

import (
	"embed"
	"fmt"
	"log"
	"path/filepath"
	"strings"
)

// RawStore is a catalog of rendered SQL statements keyed by "group.name".
// Statements are loaded once at startup from embedded `sql` directories;
// afterwards the store is read-only and hands out Stmt values ready for
// preparation.
type RawStore struct {
	stmts map[string]Stmt
}

func NewRawStore() *RawStore {
	return &RawStore{stmts: make(map[string]Stmt)}
}

func (s *RawStore) Set(key string, rendered string) {
	s.stmts[key] = Stmt(rendered)
}

func (s *RawStore) Get(key string) (Stmt, bool) {
	stmt, exists := s.stmts[key]
	return stmt, exists
}

// MustGet panics on a missing key. Use for statements registered at init.
func (s *RawStore) MustGet(key string) Stmt {
	stmt, exists := s.stmts[key]
	if !exists {
		panic(fmt.Errorf("raw stmt not found: %q", key))
	}
	return stmt
}

func (s *RawStore) Len() int {
	return len(s.stmts)
}

type StoreGroupedStmtKey struct {
	Group    string
	StmtName string
}

func (k StoreGroupedStmtKey) String() string {
	return k.Group + "." + k.StmtName
}

type GroupFS struct {
	Group string
	FS    embed.FS
}

var RawStoreRegistry []GroupFS

func RegisterGroup(fs embed.FS, group string) {
	RawStoreRegistry = append(RawStoreRegistry, GroupFS{
		FS:    fs,
		Group: group,
	})
}

// LoadRawStmtsToStore fills the store from all registered groups.
// Files named `<name>.<dbtype>` win over plain `<name>.sql`; plain `.sql`
// files have their static `?` markers converted for the dialect.
func LoadRawStmtsToStore(store *RawStore, dbtype string, placeholderPrefix byte) error {
	groupCnt := 0
	stmtCnt := 0
	for _, groupFS := range RawStoreRegistry {
		files, err := groupFS.FS.ReadDir("sql")
		if err != nil {
			return fmt.Errorf("failed to read embedded `sql` dir. %w", err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			filename := f.Name()
			ext := filepath.Ext(filename)
			name := strings.TrimSuffix(filename, ext)
			ext = strings.TrimPrefix(ext, ".")
			data, err := groupFS.FS.ReadFile(filepath.Join("sql", filename))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", filename, err)
			}
			groupedStmtKey := StoreGroupedStmtKey{Group: groupFS.Group, StmtName: name}.String()

			switch ext {
			case dbtype:
				// exact matching file extension -> use it as-is for dialects
				store.Set(groupedStmtKey, string(data))
				stmtCnt++
			case "sql":
				// Standard SQL
				// with Placeholders: `?` (static) and `??` (dynamic)
				if _, exists := store.Get(groupedStmtKey); !exists {
					store.Set(groupedStmtKey, ReplaceStaticPlaceholders(string(data), placeholderPrefix))
					stmtCnt++
				}
			}
		}
		groupCnt++
	}
	log.Printf("[INFO] %d sql raw stmts loaded for %d groups", stmtCnt, groupCnt)
	return nil
}
