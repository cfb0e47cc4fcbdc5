package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// WriteCSV writes header then rows, every field double-quoted and embedded
// quotes doubled. encoding/csv only quotes when it must, which is why the
// quoting is done here.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	bw := bufio.NewWriter(w)
	if err := writeRecord(bw, header); err != nil {
		return err
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("row %d has %d fields, header has %d", i, len(row), len(header))
		}
		if err := writeRecord(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

// Filename builds "<name>-<YYYY-MM-DD>.<ext>".
func Filename(name, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", name, now.Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}
