package param

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"math"
	"sort"
	"strconv"
)

// Digest is the canonical hash of a Config: fields in sorted order, each
// name, kind and literal length-prefixed, hashed with SHA-256.
func Digest(c Config) string {
	return hex.EncodeToString(sum(c))
}

// Seed derives the random seed for one generation call from c.
func Seed(c Config) uint64 {
	return binary.BigEndian.Uint64(sum(c)[:8])
}

// Key namespaces a config digest with a generator or assembly id.
func Key(id string, c Config) string {
	return id + ":" + Digest(c)
}

// DigestRaw hashes an unvalidated config. Numbers are normalised so that 4
// and 4.0 agree; strings stay distinct from numbers.
func DigestRaw(raw Raw) string {
	h := sha256.New()
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	writeField(h, []byte(strconv.Itoa(len(names))))
	for _, name := range names {
		writeField(h, []byte(name))
		writeField(h, []byte(rawLiteral(raw[name])))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// KeyRaw namespaces a raw digest.
func KeyRaw(id string, raw Raw) string {
	return id + ":" + DigestRaw(raw)
}

func sum(c Config) []byte {
	h := sha256.New()
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	writeField(h, []byte(strconv.Itoa(len(names))))
	for _, name := range names {
		v := c[name]
		writeField(h, []byte(name))
		writeField(h, []byte(v.Kind))
		writeField(h, []byte(v.String()))
	}
	return h.Sum(nil)
}

func writeField(h hash.Hash, data []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(data)))
	h.Write(n[:])
	h.Write(data)
}

func rawLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	}
	if n, ok := toInt(v); ok {
		return strconv.FormatInt(n, 10)
	}
	if n, ok := toFloat(v); ok {
		if n == math.Trunc(n) && math.Abs(n) < twoTo63 {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return fmt.Sprintf("%T:%v", v, v)
}
