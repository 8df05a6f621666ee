package database

import (
	"fmt"
	"strings"
)

// OpenFlag is a bitwise-combinable open mode. Values match SQLite's
// SQLITE_OPEN_* constants.
type OpenFlag int

const (
	OpenReadOnly     OpenFlag = 0x00000001
	OpenReadWrite    OpenFlag = 0x00000002
	OpenCreate       OpenFlag = 0x00000004
	OpenURI          OpenFlag = 0x00000040
	OpenFullMutex    OpenFlag = 0x00010000
	OpenSharedCache  OpenFlag = 0x00020000
	OpenPrivateCache OpenFlag = 0x00040000
)

// DefaultOpenFlags is used when no mode is given.
const DefaultOpenFlags = OpenReadWrite | OpenCreate

var flagNames = []struct {
	flag OpenFlag
	name string
}{
	{OpenReadOnly, "readonly"},
	{OpenReadWrite, "readwrite"},
	{OpenCreate, "create"},
	{OpenURI, "uri"},
	{OpenFullMutex, "fullmutex"},
	{OpenSharedCache, "sharedcache"},
	{OpenPrivateCache, "privatecache"},
}

// Has reports whether all bits of other are set.
func (f OpenFlag) Has(other OpenFlag) bool {
	return f&other == other
}

func (f OpenFlag) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
			f &^= fn.flag
		}
	}
	if f != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", int(f)))
	}
	return strings.Join(parts, "|")
}

// ParseOpenFlags combines mode names such as "readonly" or "sharedcache".
// Names are case-insensitive; an empty list yields zero.
func ParseOpenFlags(names []string) (OpenFlag, error) {
	var f OpenFlag
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		found := false
		for _, fn := range flagNames {
			if fn.name == n {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown open mode %q", n)
		}
	}
	return f, nil
}
