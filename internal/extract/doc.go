package extract

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"

	"resumeparse/internal/domain"
)

func init() {
	RegisterDecoder(domain.FormatDOC, decodeDOC)
}

// Word 97-2003 File Information Block offsets.
const (
	fibIdent       = 0xA5EC
	fibFlagsOffset = 0x000A
	fibCcpText     = 0x004C
	fibFcClx       = 0x01A2
	fibLcbClx      = 0x01A6
	fibWhichTable  = 0x0200
)

// decodeDOC extracts the main document text of a legacy Word binary file by
// walking the piece table stored in the table stream.
func decodeDOC(data []byte) ([]Page, error) {
	cfb, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening compound file: %w", err)
	}

	streams := make(map[string][]byte)
	for entry, err := cfb.Next(); err == nil; entry, err = cfb.Next() {
		switch entry.Name {
		case "WordDocument", "0Table", "1Table":
			b, rerr := io.ReadAll(entry)
			if rerr != nil {
				return nil, fmt.Errorf("reading %s stream: %w", entry.Name, rerr)
			}
			streams[entry.Name] = b
		}
	}

	wd := streams["WordDocument"]
	if len(wd) < fibLcbClx+4 || binary.LittleEndian.Uint16(wd) != fibIdent {
		return nil, errors.New("missing or invalid WordDocument stream")
	}

	flags := binary.LittleEndian.Uint16(wd[fibFlagsOffset:])
	tableName := "0Table"
	if flags&fibWhichTable != 0 {
		tableName = "1Table"
	}
	table, ok := streams[tableName]
	if !ok {
		return nil, fmt.Errorf("missing %s stream", tableName)
	}

	ccpText := int(binary.LittleEndian.Uint32(wd[fibCcpText:]))
	fcClx := int(binary.LittleEndian.Uint32(wd[fibFcClx:]))
	lcbClx := int(binary.LittleEndian.Uint32(wd[fibLcbClx:]))
	if fcClx < 0 || lcbClx <= 0 || fcClx+lcbClx > len(table) {
		return nil, errors.New("piece table out of range")
	}

	text, err := readPieces(wd, table[fcClx:fcClx+lcbClx], ccpText)
	if err != nil {
		return nil, err
	}
	return []Page{{Text: cleanWordText(text)}}, nil
}

// readPieces decodes the text referenced by a Clx structure.
func readPieces(wd, clx []byte, limit int) (string, error) {
	pos := 0
	for pos < len(clx) && clx[pos] == 0x01 {
		if pos+3 > len(clx) {
			return "", errors.New("truncated property modifier")
		}
		pos += 3 + int(binary.LittleEndian.Uint16(clx[pos+1:]))
	}
	if pos+5 > len(clx) || clx[pos] != 0x02 {
		return "", errors.New("piece table descriptor not found")
	}
	lcb := int(binary.LittleEndian.Uint32(clx[pos+1:]))
	plc := clx[pos+5:]
	if lcb > len(plc) || lcb < 4 {
		return "", errors.New("truncated piece table")
	}
	plc = plc[:lcb]

	// PlcPcd: (n+1) character positions followed by n 8-byte piece descriptors.
	n := (lcb - 4) / 12
	cps := make([]int, n+1)
	for i := range cps {
		cps[i] = int(binary.LittleEndian.Uint32(plc[i*4:]))
	}

	utf16 := xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM).NewDecoder()
	cp1252 := charmap.Windows1252.NewDecoder()

	var sb strings.Builder
	read := 0
	for i := 0; i < n && read < limit; i++ {
		pcd := plc[(n+1)*4+i*8:]
		fc := binary.LittleEndian.Uint32(pcd[2:])
		count := cps[i+1] - cps[i]
		if count <= 0 {
			continue
		}
		if read+count > limit {
			count = limit - read
		}
		read += count

		if fc&0x40000000 != 0 {
			start := int(fc&0x3FFFFFFF) / 2
			if start+count > len(wd) {
				return "", errors.New("compressed piece out of range")
			}
			b, err := cp1252.Bytes(wd[start : start+count])
			if err != nil {
				return "", fmt.Errorf("decoding cp1252 piece: %w", err)
			}
			sb.Write(b)
			continue
		}
		start := int(fc)
		if start+2*count > len(wd) {
			return "", errors.New("unicode piece out of range")
		}
		b, err := utf16.Bytes(wd[start : start+2*count])
		if err != nil {
			return "", fmt.Errorf("decoding utf-16 piece: %w", err)
		}
		sb.Write(b)
	}
	return sb.String(), nil
}

// cleanWordText maps Word control characters to plain text and keeps only
// the displayed result of field codes.
func cleanWordText(s string) string {
	var sb strings.Builder
	inInstr := false
	for _, r := range s {
		switch r {
		case 0x13:
			inInstr = true
			continue
		case 0x14, 0x15:
			inInstr = false
			continue
		}
		if inInstr {
			continue
		}
		switch r {
		case '\r', 0x0b, 0x0c:
			sb.WriteByte('\n')
		case 0x07:
			sb.WriteByte('\t')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
