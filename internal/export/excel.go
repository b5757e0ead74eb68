package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MarcosAvg/nexa/internal/models"
)

var personnelHeader = []string{
	"Nombre(s)",
	"Apellido(s)",
	"No. Empleado",
	"Correo",
	"Edificio",
	"Dependencia",
	"Área",
	"Puesto",
	"Piso",
	"Pisos P2000",
	"Pisos KONE",
	"Accesos Especiales",
	"Horario",
	"Estado",
	"Tarjetas",
}

var historyHeader = []string{
	"Fecha",
	"Entidad",
	"ID Entidad",
	"Acción",
	"Detalle",
	"Realizado Por",
}

// GeneratePersonnelReport renders the personnel directory as an Excel file.
// Statuses arrive already derived; the export only formats.
func GeneratePersonnelReport(personnel []models.Person) ([]byte, error) {
	rows := make([][]interface{}, 0, len(personnel))
	for _, p := range personnel {
		building := ""
		if p.Building != nil {
			building = p.Building.Name
		}
		dependency := ""
		if p.Dependency != nil {
			dependency = p.Dependency.Name
		}

		schedule := ""
		if p.Schedule != nil {
			entry := p.EntryTime
			if entry == "" {
				entry = p.Schedule.DefaultEntry
			}
			exit := p.ExitTime
			if exit == "" {
				exit = p.Schedule.DefaultExit
			}
			schedule = fmt.Sprintf("%s (%s - %s)", p.Schedule.Name, entry, exit)
		}

		cards := make([]string, 0, len(p.Cards))
		for _, c := range p.Cards {
			cards = append(cards, fmt.Sprintf("%s (%s)", c.Folio, c.Type))
		}

		rows = append(rows, []interface{}{
			p.FirstName,
			p.LastName,
			p.EmployeeNo,
			p.Email,
			building,
			dependency,
			p.Area,
			p.Position,
			p.Floor,
			strings.Join(p.FloorsP2000, ", "),
			strings.Join(p.FloorsKone, ", "),
			strings.Join(p.SpecialAccesses, ", "),
			schedule,
			p.DisplayStatus(),
			strings.Join(cards, ", "),
		})
	}

	return generateSheet("Directorio", personnelHeader, rows)
}

// GenerateHistoryReport renders the audit trail as an Excel file. Action
// codes are translated to their display names.
func GenerateHistoryReport(logs []models.HistoryLog) ([]byte, error) {
	rows := make([][]interface{}, 0, len(logs))
	for _, entry := range logs {
		action := entry.Action
		if name, ok := models.ActionNames[entry.Action]; ok {
			action = name
		}

		detail := ""
		if message, ok := entry.Details["message"].(string); ok {
			detail = message
		}

		entityID := ""
		if entry.EntityID != nil {
			entityID = *entry.EntityID
		}
		performedBy := ""
		if entry.PerformedBy != nil {
			performedBy = *entry.PerformedBy
		}

		rows = append(rows, []interface{}{
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			string(entry.EntityType),
			entityID,
			action,
			detail,
			performedBy,
		})
	}

	return generateSheet("Historial", historyHeader, rows)
}

func generateSheet(sheetName string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("crear hoja: %w", err)
	}

	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#DBEAFE"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("crear estilo de encabezado: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	for i := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetColWidth(sheetName, col, col, 22); err != nil {
			f.Close()
			return nil, err
		}
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("serializar archivo: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// FileName builds a timestamped download name like Directorio_2024-05-31.xlsx.
func FileName(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02"))
}
