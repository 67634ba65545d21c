// Package export serializes the participant roster into a spreadsheet for
// the admin mailing.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"registrar/internal/department"
	"registrar/internal/registration/models"
)

// Filename is the attachment name used everywhere the workbook is sent or
// downloaded.
const Filename = "participants.xlsx"

const sheet = "Participants"

var headers = []string{"Name", "Email", "USN", "Department", "Year"}

// Build serializes the roster into an xlsx byte buffer with one row per
// participant. Departments are classified here with the same rule the roster
// endpoint uses.
func Build(participants []models.Participant) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, p := range participants {
		values := []string{p.Name, p.Email, p.USN, string(department.Classify(p.USN)), p.Year}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
