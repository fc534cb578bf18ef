package serial

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// comIndexPattern matches the "COM<n>" suffix Windows appends to port names,
// e.g. "USB Serial Port (COM7)"
var comIndexPattern = regexp.MustCompile(`COM(\d+)`)

// decodeFriendlyName turns the raw ANSI bytes of a registry property into a
// string. Localised Windows installs report names in the legacy GBK code
// page; anything that does not decode cleanly is read as lossy UTF-8.
func decodeFriendlyName(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}

	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
	if err == nil && !bytes.ContainsRune(decoded, utf8.RuneError) {
		return string(decoded)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

// parseFriendlyName extracts the COM index and the label preceding it.
// The two characters before "COM" are the " (" separator and are dropped;
// they are counted as runes so a full-width bracket is never split.
func parseFriendlyName(name string) (index uint8, comment string, ok bool) {
	matches := comIndexPattern.FindAllStringSubmatchIndex(name, -1)
	if len(matches) == 0 {
		return 0, "", false
	}
	m := matches[len(matches)-1]

	n, err := strconv.ParseUint(name[m[2]:m[3]], 10, 8)
	if err != nil {
		return 0, "", false
	}

	start := m[0]
	for i := 0; i < 2 && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(name[:start])
		start -= size
	}
	comment = name[:start]
	return uint8(n), comment, true
}
