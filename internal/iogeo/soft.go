package iogeo

import (
	"bufio"
	"bytes"
	"strings"
)

// attr is one "!Key = value" line of a SOFT document.
type attr struct {
	key   string
	value string
}

// record is an entity of a SOFT document, started by "^KIND = ACC".
type record struct {
	kind  string
	acc   string
	attrs []attr
}

// values returns all values of a key in the order of appearance.
func (r record) values(key string) []string {
	var res []string
	for _, v := range r.attrs {
		if v.key == key {
			res = append(res, v.value)
		}
	}
	return res
}

func (r record) first(key string) string {
	for _, v := range r.attrs {
		if v.key == key {
			return v.value
		}
	}
	return ""
}

// parseSOFT reads entity records. Data tables and comment lines are
// skipped.
func parseSOFT(data []byte) []record {
	var res []record
	var cur *record
	inTable := false

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.HasPrefix(line, "^"):
			kind, acc := splitLine(line[1:])
			res = append(res, record{kind: strings.ToUpper(kind), acc: acc})
			cur = &res[len(res)-1]
			inTable = false
		case strings.HasSuffix(line, "_table_begin"):
			inTable = true
		case strings.HasSuffix(line, "_table_end"):
			inTable = false
		case inTable, cur == nil:
			continue
		case strings.HasPrefix(line, "!"):
			k, v := splitLine(line[1:])
			cur.attrs = append(cur.attrs, attr{key: k, value: v})
		}
	}
	return res
}

func splitLine(s string) (string, string) {
	k, v, _ := strings.Cut(s, "=")
	return strings.TrimSpace(k), strings.TrimSpace(v)
}
