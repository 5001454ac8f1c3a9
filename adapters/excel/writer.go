package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"replayrng/domain/rng"
	"replayrng/internal"
)

// SequenceWriter exports draw sequences as xlsx workbooks
type SequenceWriter struct {
	logger *internal.Logger
}

// NewSequenceWriter creates a new sequence writer
func NewSequenceWriter(logger *internal.Logger) *SequenceWriter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SequenceWriter{logger: logger.With("excel")}
}

// WriteSequence writes count draws of seed, starting after from draws, to
// path. The output doubles as a golden fixture for ReadFixture.
func (w *SequenceWriter) WriteSequence(path string, seed int32, from, count int) error {
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	gen := rng.New(seed)
	if err := gen.Restore(from); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(SheetName, "A1", &[]interface{}{ColumnSeed, ColumnDraw, ColumnValue}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 0; i < count; i++ {
		draw := gen.Count()
		value := gen.Next()
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &[]interface{}{seed, draw, value}); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	w.logger.Info("Wrote %d draws of seed %d (from %d) to %s", count, seed, from, path)
	return nil
}
