package handlers

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"gearshed/internal/database"
	"gearshed/internal/logger"
	"gearshed/internal/middleware"
	"gearshed/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	maxImportSize = 10 * 1024 * 1024
	maxImportRows = 10000
)

var csvHeader = []string{"Name", "Category", "Activity Type", "Weight (grams)", "Notes", "Wishlist"}

func handleExportGear(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	items, err := database.GetGearItems(c.Request.Context(), db, identity)
	if err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	for _, item := range items {
		record := []string{
			item.Name,
			derefString(item.CategoryName),
			derefString(item.ActivityType),
			"",
			derefString(item.Notes),
			strconv.FormatBool(item.InWishlist),
		}
		if item.Weight != nil {
			record[3] = strconv.FormatFloat(*item.Weight, 'f', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			respondError(c, err, gearItemNotFound)
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=gear.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// handleImportGear adds the rows of an uploaded CSV (same columns as the
// export) to the caller's inventory. Either every row is imported or none.
func handleImportGear(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "A CSV file is required in the \"file\" field")
		return
	}
	defer file.Close()

	if err := validateCSVFile(file, header); err != nil {
		badRequest(c, err.Error())
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		badRequest(c, "Could not read uploaded file")
		return
	}

	rows, err := parseCSVFile(file)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	imported, err := database.ImportGearItems(c.Request.Context(), db, identity, rows)
	if err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	logger.Info("Imported gear", "user_id", identity.UserID, "count", imported)
	c.JSON(http.StatusCreated, gin.H{"imported": imported})
}

func validateCSVFile(file multipart.File, header *multipart.FileHeader) error {
	if header.Size > maxImportSize {
		return errors.New("file too large (max 10MB)")
	}

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		return errors.New("file must have a .csv extension")
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return errors.New("cannot read file")
	}
	if n == 0 {
		return errors.New("file is empty")
	}

	contentType := http.DetectContentType(buffer[:n])
	if !strings.HasPrefix(contentType, "text/") {
		return fmt.Errorf("invalid file type: %s", contentType)
	}

	return nil
}

// parseCSVFile reads the export format. Category names are carried through
// unresolved; the import creates missing ones in its transaction.
func parseCSVFile(r io.Reader) ([]models.GearImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)
	reader.TrimLeadingSpace = true

	var rows []models.GearImportRow
	lineNumber := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNumber++
		if err != nil {
			return nil, fmt.Errorf("CSV parse error at line %d: %v", lineNumber, err)
		}

		// Skip header row
		if lineNumber == 1 {
			continue
		}

		if lineNumber-1 > maxImportRows {
			return nil, fmt.Errorf("too many rows (max %d)", maxImportRows)
		}

		row, err := parseCSVRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNumber, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.New("file contains no gear items")
	}

	return rows, nil
}

func parseCSVRecord(record []string) (models.GearImportRow, error) {
	name := strings.TrimSpace(record[0])
	categoryName := strings.TrimSpace(record[1])
	activityType := strings.TrimSpace(record[2])
	weightStr := strings.TrimSpace(record[3])
	notes := strings.TrimSpace(record[4])
	wishlistStr := strings.TrimSpace(record[5])

	row := models.GearImportRow{GearItemInput: models.GearItemInput{Name: name}}

	if name == "" {
		return row, errors.New("name is required")
	}
	if len([]rune(name)) > 255 || len([]rune(categoryName)) > 100 || len([]rune(activityType)) > 50 || len([]rune(notes)) > 2000 {
		return row, errors.New("field too long")
	}

	if weightStr != "" {
		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 || weight > maxGearWeight {
			return row, fmt.Errorf("weight must be a number between 0 and %d", maxGearWeight)
		}
		row.Weight = &weight
	}

	if notes != "" {
		row.Notes = &notes
	}

	if wishlistStr != "" {
		inWishlist, err := parseBool(wishlistStr)
		if err != nil {
			return row, errors.New("wishlist must be true or false")
		}
		row.InWishlist = inWishlist
	}

	if categoryName != "" {
		if activityType == "" {
			activityType = "general"
		}
		row.CategoryName = categoryName
		row.ActivityType = activityType
	}

	return row, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
