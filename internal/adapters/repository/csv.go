// Package repository provides the yearly dataset sources: a directory of
// CSV files, an S3 bucket, a PostgreSQL table and an in-memory table.
package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/namerank/internal/domain/model"
)

// CSV column layout of the yearly files: name,gender,count with no header.
const (
	colName = iota
	colGender
	colCount
	numColumns
)

// ParseRecords reads headerless name,gender,count rows from r in file order.
// Blank lines are skipped and fields are trimmed.
func ParseRecords(r io.Reader) ([]model.BirthRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var records []model.BirthRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		line, _ := reader.FieldPos(0)
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRecord, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (model.BirthRecord, error) {
	if len(row) != numColumns {
		return model.BirthRecord{}, fmt.Errorf("want %d fields, got %d", numColumns, len(row))
	}
	name := strings.TrimSpace(row[colName])
	if name == "" {
		return model.BirthRecord{}, errors.New("empty name")
	}
	gender, err := model.ParseGender(row[colGender])
	if err != nil {
		return model.BirthRecord{}, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(row[colCount]))
	if err != nil {
		return model.BirthRecord{}, fmt.Errorf("count: %w", err)
	}
	if count < 0 {
		return model.BirthRecord{}, fmt.Errorf("negative count %d", count)
	}
	return model.BirthRecord{Name: name, Gender: gender, Count: count}, nil
}

// WriteRecords writes records to w in the same layout ParseRecords reads.
func WriteRecords(w io.Writer, records []model.BirthRecord) error {
	cw := csv.NewWriter(w)
	row := make([]string, numColumns)
	for i, r := range records {
		if !r.Gender.Valid() {
			return fmt.Errorf("%w: record %d: %w", ErrMalformedRecord, i+1, model.ErrInvalidGender)
		}
		row[colName] = r.Name
		row[colGender] = r.Gender.String()
		row[colCount] = strconv.Itoa(r.Count)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
