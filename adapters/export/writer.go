// Package export serializes the collected record collections into a
// multi-sheet spreadsheet artifact, with per-collection CSV fallback.
package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"vmcatalog/internal/config"
	"vmcatalog/internal/errors"
	"vmcatalog/internal/logging"
)

// Artifact describes what Export actually wrote.
type Artifact struct {
	// WorkbookPath is set when the spreadsheet was written
	WorkbookPath string

	// CSVPaths are the fallback files, set when workbook writing failed
	CSVPaths []string
}

// Writer exports collections to disk.
type Writer struct {
	workbookPath string
	csvDir       string
}

// NewWriter creates an exporter for the given output configuration.
func NewWriter(cfg config.OutputConfig) *Writer {
	return &Writer{
		workbookPath: cfg.WorkbookPath,
		csvDir:       cfg.CSVDir,
	}
}

// Export writes one workbook sheet per non-empty collection. If the
// workbook cannot be written it falls back to one CSV file per
// collection; only the failure of both is an error.
func (w *Writer) Export(collections []Collection) (*Artifact, error) {
	nonEmpty := make([]Collection, 0, len(collections))
	for _, col := range collections {
		if col.Empty() {
			logging.Debug("skipping empty collection", zap.String("collection", col.Name))
			continue
		}
		nonEmpty = append(nonEmpty, col)
	}
	if len(nonEmpty) == 0 {
		logging.Warn("nothing to export")
		return &Artifact{}, nil
	}

	if err := w.writeWorkbook(nonEmpty); err != nil {
		logging.Warn("workbook write failed, saving CSV backups", zap.Error(err))
		paths, csvErr := w.writeCSVs(nonEmpty)
		if csvErr != nil {
			return nil, errors.Export("failed to write workbook and CSV fallback", csvErr).
				WithContext("workbook_error", err.Error())
		}
		return &Artifact{CSVPaths: paths}, nil
	}
	return &Artifact{WorkbookPath: w.workbookPath}, nil
}

func (w *Writer) writeWorkbook(collections []Collection) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, col := range collections {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), col.Name); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(col.Name); err != nil {
				return err
			}
		}

		if err := f.SetSheetRow(col.Name, "A1", &col.Header); err != nil {
			return err
		}
		for rowIdx, row := range col.Rows {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(col.Name, cell, &row); err != nil {
				return err
			}
		}
		logging.Debug("sheet written",
			zap.String("sheet", col.Name), zap.Int("rows", len(col.Rows)))
	}

	return f.SaveAs(w.workbookPath)
}

func (w *Writer) writeCSVs(collections []Collection) ([]string, error) {
	var paths []string
	for _, col := range collections {
		path := filepath.Join(w.csvDir, strings.ToLower(col.Name)+".csv")

		file, err := os.Create(path)
		if err != nil {
			return nil, err
		}

		cw := csv.NewWriter(file)
		if err := cw.Write(col.Header); err != nil {
			file.Close()
			return nil, err
		}
		if err := cw.WriteAll(col.Rows); err != nil {
			file.Close()
			return nil, err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			file.Close()
			return nil, err
		}
		if err := file.Close(); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
