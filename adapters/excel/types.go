package excel

// RawRowData represents a row of raw sheet data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete sheet contents
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Column headers shared by exported sequences and golden fixtures
const (
	ColumnSeed  = "seed"
	ColumnDraw  = "draw"
	ColumnValue = "value"
)

// SheetName is the sheet sequences are written to and fixtures are read from
const SheetName = "Sheet1"

// FixtureRow is one expected draw: the value a generator for Seed returns
// when it has already taken Draw draws.
type FixtureRow struct {
	Seed  int32
	Draw  int
	Value int32
}
