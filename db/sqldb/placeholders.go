package sqldb

import (
	"fmt"
	"strconv"
	"strings"
)

var PlaceholderPrefixForDBType = map[string]byte{
	"mysql":  '?',
	"pgsql":  '$',
	"mssql":  '@',
	"oracle": ':',
	"sqlite": 0, // NOTE: sqlite supports all of them
}

// Placeholder renders one positional marker for the given prefix.
// '?'-style dialects ignore the index.
func Placeholder(prefix byte, index int) string {
	if prefix == '?' || prefix == 0 {
		return "?"
	}
	return fmt.Sprintf("%c%d", prefix, index)
}

// Placeholders renders a comma-separated list of length markers,
// numbered from start for ordinal dialects.
func Placeholders(prefix byte, length int, start int) string {
	if length <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(4 * length)
	for i := 0; i < length; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		if prefix == '?' || prefix == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte(prefix)
			b.WriteString(strconv.Itoa(start + i))
		}
	}
	return b.String()
}

// ReplaceStaticPlaceholders converts `?` markers to the dialect's ordinal
// form (e.g. $1, $2). Dynamic `??` markers are left untouched.
func ReplaceStaticPlaceholders(sql string, prefix byte) string {
	if prefix == '?' || prefix == 0 {
		return sql
	}
	var b strings.Builder
	b.Grow(len(sql) + 8)
	cnt := 1
	for i := 0; i < len(sql); i++ {
		if sql[i] != '?' {
			b.WriteByte(sql[i])
			continue
		}
		// Do Not Touch Dynamic Placeholders '??'
		if i+1 < len(sql) && sql[i+1] == '?' {
			b.WriteString("??")
			i++
			continue
		}
		b.WriteByte(prefix)
		b.WriteString(strconv.Itoa(cnt))
		cnt++
	}
	return b.String()
}

// ExpandDynamicPlaceholders replaces each `??` marker with a list of
// counts[i] positional markers, numbered from start for ordinal dialects.
func ExpandDynamicPlaceholders(sql string, prefix byte, counts []int, start int) (string, error) {
	const symbol = "??"
	var b strings.Builder
	b.Grow(len(sql) + 16*len(counts))

	i := 0
	countIndex := 0
	ord := start
	for {
		j := strings.Index(sql[i:], symbol)
		if j == -1 {
			b.WriteString(sql[i:])
			break
		}
		b.WriteString(sql[i : i+j])
		i += j + len(symbol)

		if countIndex >= len(counts) {
			return "", fmt.Errorf("ExpandDynamicPlaceholders: not enough counts for %q", symbol)
		}
		n := counts[countIndex]
		countIndex++

		b.WriteString(Placeholders(prefix, n, ord))
		if prefix != '?' && prefix != 0 {
			ord += n
		}
	}
	if countIndex < len(counts) {
		return "", fmt.Errorf("ExpandDynamicPlaceholders: too many counts for %q", symbol)
	}
	return b.String(), nil
}
