// Package report renders admin exports as Excel workbooks.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

var appointmentColumns = []string{
	"Appointment ID", "User ID", "Salon ID", "Service ID", "Expert ID",
	"Date", "Time", "Status", "Created At",
}

// WriteAppointments writes an xlsx workbook with one row per appointment.
func WriteAppointments(w io.Writer, appointments []models.Appointment) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Appointments"
	f.SetSheetName("Sheet1", sheet)

	if err := writeRow(f, sheet, 1, toCells(appointmentColumns)); err != nil {
		return err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(appointmentColumns), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}

	for i, a := range appointments {
		row := []interface{}{
			a.AppointmentID, a.UserID, a.SalonID, a.ServiceID, a.ExpertID,
			a.Date, models.BucketLabel(a.TimeBucket), a.Status,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(columns []string) []interface{} {
	out := make([]interface{}, len(columns))
	for i, c := range columns {
		out[i] = c
	}
	return out
}
