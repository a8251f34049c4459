// Package table holds the in-memory form of a downloaded spreadsheet and the
// steps that clean it.
//
// A Table is loaded from the first sheet of a workbook. The first non-blank row
// names the columns: blank header cells become "Unnamed: <position>" and repeated
// names get ".1", ".2" suffixes, the same convention spreadsheet readers in the
// data-science world use. Each cell keeps its raw text and is flagged missing when
// it is empty or holds one of the usual NA markers ("NA", "N/A", "NaN", "NULL",
// "#N/A", ...). Cells keep the type the workbook stores: text stays text even
// when it looks like a number, booleans are written True/False and date-formatted
// numbers become timestamps. Column kinds (integer, float, date, datetime,
// string, empty) are inferred from the cells that are present; untyped text, as
// read back from CSV, counts as a number only in plain decimal notation.
//
// Cleaning is positional renaming followed by DropMissing, which removes every
// row holding a missing cell and then every column still holding one.
package table
