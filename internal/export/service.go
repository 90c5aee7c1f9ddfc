// Package export produces XLSX workbooks from stored invoice records.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aienergy/invoice-analyzer/internal/entity"
)

// InvoiceSource supplies the invoice rows; satisfied by pipeline.Processor.
type InvoiceSource interface {
	Invoices(ctx context.Context) ([]entity.Invoice, error)
}

// Service is a tiny façade over the invoice source that produces XLSX bytes.
type Service struct {
	src    InvoiceSource
	logger *slog.Logger
}

func NewService(src InvoiceSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{src: src, logger: logger}
}

// ExportInvoicesXLSX returns a workbook with one row per stored invoice.
// Fields the model left null come out as empty cells.
func (s *Service) ExportInvoicesXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	invoices, err := s.src.Invoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"ID",
		"Provider",
		"Invoice Number",
		"Issue Date",
		"Due Date",
		"Customer",
		"Total Amount",
		"Period Start",
		"Period End",
		"Total kWh",
		"Rate per kWh",
		"Peak kWh",
		"Off-Peak kWh",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, inv := range invoices {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, inv.ID)
		write(2, strOrEmpty(inv.Provider))
		write(3, flexOrEmpty(inv.InvoiceNumber))
		write(4, strOrEmpty(inv.IssueDate))
		write(5, strOrEmpty(inv.DueDate))
		write(6, strOrEmpty(inv.CustomerName))
		writeNum(write, 7, inv.TotalAmount)
		write(8, strOrEmpty(inv.PeriodStart))
		write(9, strOrEmpty(inv.PeriodEnd))
		writeNum(write, 10, inv.TotalKWh)
		writeNum(write, 11, inv.RatePerKWh)
		writeNum(write, 12, inv.PeakKWh)
		writeNum(write, 13, inv.OffPeakKWh)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 38) // id
	_ = f.SetColWidth(sheet, "B", "B", 20) // provider
	_ = f.SetColWidth(sheet, "C", "C", 18) // invoice number
	_ = f.SetColWidth(sheet, "D", "E", 12) // dates
	_ = f.SetColWidth(sheet, "F", "F", 26) // customer
	_ = f.SetColWidth(sheet, "G", "M", 13) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(invoices),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func flexOrEmpty(p *entity.FlexString) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

func writeNum(write func(int, any), col int, p *float64) {
	if p == nil {
		write(col, "")
		return
	}
	write(col, *p)
}
