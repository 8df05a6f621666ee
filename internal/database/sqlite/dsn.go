package sqlite

import (
	"net/url"
	"strings"

	"github.com/joacominatel/sqlcli/internal/database"
)

const memoryFilename = ":memory:"

var pathEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// BuildDSN turns a filename and open flags into a SQLite URI filename.
//
// With OpenURI the filename is already a URI and is returned unchanged.
// Otherwise the access flags become the mode parameter (ro, rw or rwc) and
// the cache flags become the cache parameter. A zero flag set means
// read-write with create. An empty filename opens an in-memory database.
func BuildDSN(filename string, flags database.OpenFlag) string {
	if flags.Has(database.OpenURI) {
		return filename
	}
	if filename == "" {
		filename = memoryFilename
	}
	if flags&(database.OpenReadOnly|database.OpenReadWrite|database.OpenCreate) == 0 {
		flags |= database.DefaultOpenFlags
	}

	params := url.Values{}
	switch {
	case flags.Has(database.OpenReadWrite) && flags.Has(database.OpenCreate):
		params.Set("mode", "rwc")
	case flags.Has(database.OpenReadWrite):
		params.Set("mode", "rw")
	case flags.Has(database.OpenReadOnly):
		params.Set("mode", "ro")
	default:
		// create alone implies read-write
		params.Set("mode", "rwc")
	}

	switch {
	case flags.Has(database.OpenSharedCache):
		params.Set("cache", "shared")
	case flags.Has(database.OpenPrivateCache):
		params.Set("cache", "private")
	}

	return "file:" + pathEscaper.Replace(filename) + "?" + params.Encode()
}

// filenameFromDSN recovers the database filename from a DSN built by BuildDSN
// or passed through as a URI.
func filenameFromDSN(dsn string) string {
	name := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if name == "" {
		return memoryFilename
	}
	return name
}

func isMemory(dsn string) bool {
	name := filenameFromDSN(dsn)
	return name == memoryFilename || strings.Contains(dsn, "mode=memory")
}
