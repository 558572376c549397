package extract

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// tjSpaceThreshold is the TJ kerning adjustment, in thousandths of an em,
// beyond which a word gap is assumed.
const tjSpaceThreshold = -200

// contentText collects the strings shown by the text operators of a page
// content stream. Tj, TJ, ' and " show text; T*, ', ", Tm, ET and any Td/TD
// with a vertical move start a new line.
func contentText(content []byte) string {
	var (
		lines    []string
		cur      strings.Builder
		strs     []string
		nums     []float64
		inArray  bool
		arrayBuf strings.Builder
	)
	newline := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			lines = append(lines, t)
		}
		cur.Reset()
	}
	show := func() {
		if len(strs) > 0 {
			cur.WriteString(strs[len(strs)-1])
		}
	}

	for i := 0; i < len(content); {
		c := content[i]
		switch {
		case isPDFSpace(c):
			i++
		case c == '%':
			for i < len(content) && content[i] != '\n' && content[i] != '\r' {
				i++
			}
		case c == '(':
			s, n := readLiteralString(content[i:])
			i += n
			if inArray {
				arrayBuf.WriteString(s)
			} else {
				strs = append(strs, s)
			}
		case c == '<' && i+1 < len(content) && content[i+1] == '<':
			i += 2
		case c == '>' && i+1 < len(content) && content[i+1] == '>':
			i += 2
		case c == '<':
			s, n := readHexString(content[i:])
			i += n
			if inArray {
				arrayBuf.WriteString(s)
			} else {
				strs = append(strs, s)
			}
		case c == '[':
			inArray = true
			arrayBuf.Reset()
			i++
		case c == ']':
			inArray = false
			strs = append(strs, arrayBuf.String())
			i++
		default:
			tok, n := readToken(content[i:])
			i += n
			if tok == "" {
				i++
				continue
			}
			if strings.HasPrefix(tok, "/") {
				continue
			}
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				if inArray {
					if v < tjSpaceThreshold {
						arrayBuf.WriteByte(' ')
					}
				} else {
					nums = append(nums, v)
				}
				continue
			}

			switch tok {
			case "Tj", "TJ":
				show()
			case "'", `"`:
				newline()
				show()
			case "T*", "Tm", "ET":
				newline()
			case "Td", "TD":
				if len(nums) >= 2 && nums[len(nums)-1] != 0 {
					newline()
				} else if cur.Len() > 0 {
					cur.WriteByte(' ')
				}
			case "ID":
				i += skipInlineImage(content[i:])
			}
			strs = strs[:0]
			nums = nums[:0]
		}
	}
	newline()
	return strings.Join(lines, "\n")
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// readToken reads a name, number or operator. Names keep their leading slash.
func readToken(b []byte) (string, int) {
	i := 0
	if i < len(b) && b[i] == '/' {
		i++
	}
	for i < len(b) && !isPDFSpace(b[i]) && !isPDFDelimiter(b[i]) {
		i++
	}
	return string(b[:i]), i
}

// readLiteralString decodes a parenthesised string starting at b[0] and
// returns it with the number of bytes consumed.
func readLiteralString(b []byte) (string, int) {
	var out []byte
	depth := 0
	i := 0
	for ; i < len(b); i++ {
		c := b[i]
		switch c {
		case '(':
			depth++
			if depth == 1 {
				continue
			}
		case ')':
			depth--
			if depth == 0 {
				return decodeWinAnsi(out), i + 1
			}
		case '\\':
			i++
			if i >= len(b) {
				return decodeWinAnsi(out), i
			}
			switch e := b[i]; e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b', 'f':
			case '\r':
				if i+1 < len(b) && b[i+1] == '\n' {
					i++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := 0
					j := 0
					for ; j < 3 && i+j < len(b) && b[i+j] >= '0' && b[i+j] <= '7'; j++ {
						v = v*8 + int(b[i+j]-'0')
					}
					i += j - 1
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
			continue
		}
		out = append(out, c)
	}
	return decodeWinAnsi(out), i
}

// readHexString decodes <...> starting at b[0]. Bytes outside printable
// ASCII are dropped since their meaning depends on the font encoding.
func readHexString(b []byte) (string, int) {
	var digits []byte
	i := 1
	for ; i < len(b) && b[i] != '>'; i++ {
		if isHexDigit(b[i]) {
			digits = append(digits, b[i])
		}
	}
	if i < len(b) {
		i++
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	var sb strings.Builder
	for j := 0; j < len(digits); j += 2 {
		v, _ := strconv.ParseUint(string(digits[j:j+2]), 16, 8)
		if v >= 0x20 && v < 0x7f {
			sb.WriteByte(byte(v))
		}
	}
	return sb.String(), i
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// skipInlineImage skips binary inline image data up to and including EI.
func skipInlineImage(b []byte) int {
	for i := 0; i+2 < len(b); i++ {
		if isPDFSpace(b[i]) && b[i+1] == 'E' && b[i+2] == 'I' && (i+3 == len(b) || isPDFSpace(b[i+3])) {
			return i + 3
		}
	}
	return len(b)
}

func decodeWinAnsi(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
			continue
		}
		sb.WriteRune(charmap.Windows1252.DecodeByte(c))
	}
	return sb.String()
}
