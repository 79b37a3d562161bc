package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const fieldsPerRow = 4

// csvFile is a header-first, comma separated file that is appended to or
// rewritten in full. It does no locking.
type csvFile struct {
	path   string
	header []string
}

// readRows returns every row after the header. A missing file has no rows.
func (f csvFile) readRows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading file %s: %w", f.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading header of %s: %w", f.path, err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading file %s: %w", f.path, err)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		rows = append(rows, dropTrailingEmpty(record))
	}
	return rows, nil
}

// dropTrailingEmpty removes empty fields from the end of a row, so
// "1,Alice,a@x.com," counts as three fields and fails the field count check.
func dropTrailingEmpty(record []string) []string {
	for len(record) > 0 && record[len(record)-1] == "" {
		record = record[:len(record)-1]
	}
	return record
}

// appendRow adds one row at the end of the file. The file must exist.
func (f csvFile) appendRow(ctx context.Context, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("error opening %s for append: %w", f.path, err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(row); err != nil {
		file.Close()
		return fmt.Errorf("error writing %s: %w", f.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return fmt.Errorf("error writing %s: %w", f.path, err)
	}
	return file.Close()
}

// rewrite replaces the whole file with the header followed by rows. The new
// content is written next to the target and renamed over it.
func (f csvFile) rewrite(ctx context.Context, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temp file for %s: %w", f.path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(f.header); err != nil {
		cleanup()
		return fmt.Errorf("error writing %s: %w", f.path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		cleanup()
		return fmt.Errorf("error writing %s: %w", f.path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("error syncing %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error closing %s: %w", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error replacing %s: %w", f.path, err)
	}
	return nil
}

// init creates the file with its header. An existing file is left alone.
func (f csvFile) init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking %s: %w", f.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("error creating directory for %s: %w", f.path, err)
	}
	return f.rewrite(ctx, nil)
}

func parseInt(path, field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("error parsing numeric %s %q in file %s: %w", field, value, path, err)
	}
	return n, nil
}
