// Package export writes approved posts to the CSV sink and pushes them to
// the publishing outbox.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/mark3labs/postgenie/internal/wizard"
)

// Header is the first line of every CSV export.
var Header = []string{"Platform", "Content", "Hashtags", "Image URL", "Status", "Created Date & Time"}

// TimestampLayout formats the "Created Date & Time" column.
const TimestampLayout = "01/02/2006 03:04:05 PM"

// WriteCSV writes rows with a header line. Content and hashtags are always
// quoted; other fields are quoted only when they need it.
func WriteCSV(w io.Writer, rows []wizard.ExportRow) error {
	bw := bufio.NewWriter(w)
	writeLine(bw, Header, nil)
	for _, r := range rows {
		writeLine(bw, []string{
			platform.Label(r.Platform),
			r.Text,
			r.Hashtags,
			r.ImageURL,
			r.Status,
			r.Timestamp.Format(TimestampLayout),
		}, alwaysQuoted)
	}
	return bw.Flush()
}

// alwaysQuoted marks the Content and Hashtags columns.
var alwaysQuoted = map[int]bool{1: true, 2: true}

func writeLine(w *bufio.Writer, fields []string, force map[int]bool) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		if force[i] || strings.ContainsAny(f, ",\"\r\n") || strings.TrimSpace(f) != f {
			w.WriteByte('"')
			w.WriteString(strings.ReplaceAll(f, `"`, `""`))
			w.WriteByte('"')
			continue
		}
		w.WriteString(f)
	}
	w.WriteByte('\n')
}

// FileName builds "<slug(brand)>-posts-<unix>.csv".
func FileName(brand string, now time.Time) string {
	base := slug.Make(brand)
	if base == "" {
		base = "postgenie"
	}
	return fmt.Sprintf("%s-posts-%d.csv", base, now.Unix())
}

// WriteFile writes rows to a new CSV file in dir and returns its path.
func WriteFile(dir, brand string, rows []wizard.ExportRow, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(brand, now))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	for n := 2; errors.Is(err, fs.ErrExist) && n < 100; n++ {
		path = filepath.Join(dir, strings.TrimSuffix(FileName(brand, now), ".csv")+fmt.Sprintf("-%d.csv", n))
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	if err := WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}
	return path, nil
}
