package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/services-booking/internal/models"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var bookingColumns = []string{
	"ID", "Service", "Date", "Time", "Minutes", "Status",
	"Name", "Email", "Mobile", "Address", "City", "Pincode", "Country",
	"Total", "Created",
}

// sheetWriter appends rows to the sheets of one workbook.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
}

func newSheetWriter() *sheetWriter {
	return &sheetWriter{file: excelize.NewFile()}
}

func (w *sheetWriter) addSheet(name string) error {
	// Excel limits sheet names to 31 characters.
	if len(name) > 31 {
		name = name[:31]
	}

	if w.sheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return err
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.sheet = name
	w.row = 1
	return nil
}

func (w *sheetWriter) writeHeader(columns []string) error {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	if err := w.writeRow(row); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, 1)
	end, _ := excelize.CoordinatesToCellName(len(columns), 1)
	return w.file.SetCellStyle(w.sheet, start, end, style)
}

func (w *sheetWriter) writeRow(values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.sheet, cell, &values); err != nil {
		return err
	}
	w.row++
	return nil
}

// WriteBookings renders bookings as an xlsx workbook with one sheet.
func WriteBookings(out io.Writer, bookings []models.Booking) error {
	w := newSheetWriter()
	defer w.file.Close()

	if err := w.addSheet("Bookings"); err != nil {
		return err
	}
	if err := w.writeHeader(bookingColumns); err != nil {
		return err
	}

	for _, b := range bookings {
		service := ""
		if b.Service != nil {
			service = b.Service.Title
		}
		if err := w.writeRow([]any{
			b.ID, service, b.BookingDate, b.BookingTime, b.BookedDuration, b.Status,
			b.Name, b.Email, b.Mobile, b.Address, b.City, b.Pincode, b.Country,
			b.TotalPrice, b.CreatedAt.Format("2006-01-02 15:04"),
		}); err != nil {
			return err
		}
	}

	return w.file.Write(out)
}
