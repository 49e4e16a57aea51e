// Package ocr holds the OCR backends behind the extraction service:
// a local Tesseract engine and a cloud vision API used as enrichment.
// Both satisfy the extract usecase's Backend contract.
package ocr
