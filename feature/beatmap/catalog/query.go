package catalog

import (
	"fmt"
	"strconv"
)

// QueryKind selects which identifier a Query carries.
type QueryKind string

const (
	KindMD5   QueryKind = "md5"
	KindID    QueryKind = "id"
	KindSetID QueryKind = "set"
)

// Query identifies what to fetch: exactly one of checksum, beatmap id or set id.
type Query struct {
	Kind QueryKind
	MD5  string
	ID   int
}

// ByMD5 queries a single difficulty by checksum.
func ByMD5(md5 string) Query { return Query{Kind: KindMD5, MD5: md5} }

// ByID queries a single difficulty by beatmap id.
func ByID(id int) Query { return Query{Kind: KindID, ID: id} }

// BySetID queries every difficulty of a set.
func BySetID(id int) Query { return Query{Kind: KindSetID, ID: id} }

// Param returns the get_beatmaps query parameter name and value.
func (q Query) Param() (string, string, error) {
	switch q.Kind {
	case KindMD5:
		if q.MD5 == "" {
			return "", "", fmt.Errorf("empty md5 query")
		}
		return "h", q.MD5, nil
	case KindID:
		return "b", strconv.Itoa(q.ID), nil
	case KindSetID:
		return "s", strconv.Itoa(q.ID), nil
	default:
		return "", "", fmt.Errorf("unknown query kind %q", q.Kind)
	}
}

// Key is a stable identifier used for request coalescing and logs.
func (q Query) Key() string {
	if q.Kind == KindMD5 {
		return "md5:" + q.MD5
	}
	return string(q.Kind) + ":" + strconv.Itoa(q.ID)
}
