package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gearshed/internal/auth"
	"gearshed/internal/config"
	"gearshed/internal/database"
	"gearshed/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestServer(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTExpiresHours: 1,
		CORSOrigins:     []string{"http://localhost:5173"},
		Environment:     "development",
	}

	r := gin.New()
	SetupRoutes(r, &Server{
		DB:      db,
		Config:  cfg,
		JWT:     auth.NewJWTManager(cfg.JWTSecret, time.Hour),
		Metrics: middleware.NewMetrics(),
	})

	return r, db
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func registerUser(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)["token"].(string)
}

func createGear(t *testing.T, r *gin.Engine, token string, body gin.H) int {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/gear", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decodeBody(t, w)["item"].(map[string]any)
	return int(item["id"].(float64))
}

func createCategory(t *testing.T, r *gin.Engine, token, name, activityType string) int {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/categories", token, gin.H{
		"name":         name,
		"activityType": activityType,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decodeBody(t, w)["category"].(map[string]any)
	return int(category["id"].(float64))
}

func TestHealth(t *testing.T) {
	r, _ := setupTestServer(t)

	w := doRequest(t, r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])

	w = doRequest(t, r, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", decodeBody(t, w)["error"])
}

func TestAuthFlow(t *testing.T) {
	r, _ := setupTestServer(t)

	w := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "hiker@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "hiker@example.com", body["user"].(map[string]any)["email"])

	w = doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "hiker@example.com",
		"password": "password456",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already registered", decodeBody(t, w)["error"])

	w = doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Len(t, body["details"], 2)

	w = doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "hiker@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, w)["error"])

	w = doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "hiker@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "Login successful", body["message"])
	token := body["token"].(string)

	w = doRequest(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hiker@example.com", decodeBody(t, w)["user"].(map[string]any)["email"])

	w = doRequest(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/gear", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCategoryHandlers(t *testing.T) {
	r, _ := setupTestServer(t)
	token := registerUser(t, r, "hiker@example.com")

	shelterID := createCategory(t, r, token, "Shelter", "backpacking")
	createCategory(t, r, token, "Protection", "climbing")

	w := doRequest(t, r, http.MethodPost, "/api/categories", token, gin.H{
		"name":         "Shelter",
		"activityType": "backpacking",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Duplicate entry", decodeBody(t, w)["error"])

	w = doRequest(t, r, http.MethodGet, "/api/categories?activityType=climbing", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["categories"], 1)

	w = doRequest(t, r, http.MethodGet, "/api/categories/activity-types", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"backpacking", "climbing"}, decodeBody(t, w)["activityTypes"])

	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/categories/%d", shelterID), token, gin.H{"name": "Shelters"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Shelters", decodeBody(t, w)["category"].(map[string]any)["name"])

	w = doRequest(t, r, http.MethodGet, "/api/categories/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/categories/%d", shelterID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/categories/%d", shelterID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", decodeBody(t, w)["error"])
}

func TestGearHandlers(t *testing.T) {
	r, _ := setupTestServer(t)
	token := registerUser(t, r, "hiker@example.com")
	categoryID := createCategory(t, r, token, "Shelter", "backpacking")

	itemID := createGear(t, r, token, gin.H{"name": "Tent", "weight": 1500, "categoryId": categoryID})

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/gear/%d", itemID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	item := decodeBody(t, w)["item"].(map[string]any)
	assert.Equal(t, "Tent", item["name"])
	assert.Equal(t, "Shelter", item["category_name"])
	assert.Equal(t, false, item["in_wishlist"])

	w = doRequest(t, r, http.MethodPost, "/api/gear", token, gin.H{"name": "Stove", "weight": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", decodeBody(t, w)["error"])

	w = doRequest(t, r, http.MethodPost, "/api/gear", token, gin.H{"name": "Stove", "categoryId": 9999})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Reference error", decodeBody(t, w)["error"])

	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/gear/%d", itemID), token, gin.H{"weight": 1450})
	require.Equal(t, http.StatusOK, w.Code)
	item = decodeBody(t, w)["item"].(map[string]any)
	assert.Equal(t, 1450.0, item["weight"])
	assert.Equal(t, "Tent", item["name"])

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/gear/%d/wishlist", itemID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["item"].(map[string]any)["in_wishlist"])

	w = doRequest(t, r, http.MethodGet, "/api/wishlist", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["items"], 1)

	w = doRequest(t, r, http.MethodGet, "/api/gear", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["items"], 1)

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/gear/%d", itemID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/gear/%d", itemID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Gear item not found", decodeBody(t, w)["error"])
}

func TestOwnershipIsolation(t *testing.T) {
	r, _ := setupTestServer(t)
	alice := registerUser(t, r, "alice@example.com")
	bob := registerUser(t, r, "bob@example.com")

	itemID := createGear(t, r, alice, gin.H{"name": "Tent", "weight": 1500})

	w := doRequest(t, r, http.MethodPost, "/api/packlists", alice, gin.H{"name": "Alice's trip"})
	require.Equal(t, http.StatusCreated, w.Code)
	packListID := decodeBody(t, w)["packlist"].(map[string]any)["id"].(string)

	for _, path := range []string{
		fmt.Sprintf("/api/gear/%d", itemID),
		"/api/packlists/" + packListID,
		"/api/packlists/" + packListID + "/weight",
		"/api/packlists/" + packListID + "/analyze",
	} {
		w = doRequest(t, r, http.MethodGet, path, bob, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/gear/%d", itemID), bob, gin.H{"name": "Mine now"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/api/packlists/"+packListID, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/gear", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["items"])

	w = doRequest(t, r, http.MethodGet, "/api/packlists/"+packListID, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPackListHandlers(t *testing.T) {
	r, _ := setupTestServer(t)
	token := registerUser(t, r, "hiker@example.com")
	other := registerUser(t, r, "other@example.com")

	shelter := createCategory(t, r, token, "Shelter", "backpacking")
	sleep := createCategory(t, r, token, "Sleep System", "backpacking")
	cooking := createCategory(t, r, token, "Cooking", "backpacking")

	tent := createGear(t, r, token, gin.H{"name": "Tent", "weight": 1500, "categoryId": shelter})
	bag := createGear(t, r, token, gin.H{"name": "Sleeping Bag", "weight": 850, "categoryId": sleep})
	stove := createGear(t, r, token, gin.H{"name": "Stove", "weight": 73, "categoryId": cooking})
	headlamp := createGear(t, r, token, gin.H{"name": "Headlamp"})
	foreign := createGear(t, r, other, gin.H{"name": "Not mine", "weight": 10})

	w := doRequest(t, r, http.MethodPost, "/api/packlists", token, gin.H{"name": "Trip", "date": "15-03-2024"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/packlists", token, gin.H{
		"name":         "Weekend Trip",
		"activityType": "backpacking",
		"date":         "2024-03-15",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	packListID := decodeBody(t, w)["packlist"].(map[string]any)["id"].(string)
	base := "/api/packlists/" + packListID

	for _, id := range []int{tent, bag, stove, headlamp, tent} {
		w = doRequest(t, r, http.MethodPost, base+"/items", token, gin.H{"gearItemId": id})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Item added to pack list", decodeBody(t, w)["message"])
	}

	w = doRequest(t, r, http.MethodPost, base+"/items", token, gin.H{"gearItemId": tent})
	require.Equal(t, http.StatusCreated, w.Code)
	membership := decodeBody(t, w)["item"].(map[string]any)
	assert.Equal(t, packListID, membership["pack_list_id"])
	assert.Equal(t, float64(tent), membership["gear_item_id"])

	w = doRequest(t, r, http.MethodPost, base+"/items", token, gin.H{"gearItemId": foreign})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Gear item not found", decodeBody(t, w)["error"])

	w = doRequest(t, r, http.MethodPost, "/api/packlists/missing/items", token, gin.H{"gearItemId": tent})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Pack list not found", decodeBody(t, w)["error"])

	w = doRequest(t, r, http.MethodGet, base+"/weight", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2423.0, decodeBody(t, w)["totalWeight"])

	w = doRequest(t, r, http.MethodGet, base+"/analyze", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	analysis := decodeBody(t, w)["analysis"].(map[string]any)
	assert.Equal(t, 2423.0, analysis["totalWeight"])
	assert.Equal(t, 4.0, analysis["itemCount"])

	var heaviest []string
	for _, item := range analysis["heaviestItems"].([]any) {
		heaviest = append(heaviest, item.(map[string]any)["name"].(string))
	}
	assert.Equal(t, []string{"Tent", "Sleeping Bag", "Stove", "Headlamp"}, heaviest)

	breakdown := analysis["categoryBreakdown"].([]any)
	require.Len(t, breakdown, 4)
	assert.Equal(t, "Shelter", breakdown[0].(map[string]any)["category"])
	assert.Equal(t, 1500.0, breakdown[0].(map[string]any)["category_weight"])

	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/gear/%d", tent), token, gin.H{"weight": 1200})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, base+"/weight", token, nil)
	assert.Equal(t, 2123.0, decodeBody(t, w)["totalWeight"])

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/gear/%d/packlists", tent), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Weekend Trip"}, decodeBody(t, w)["packlists"])

	w = doRequest(t, r, http.MethodGet, "/api/packlists", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summaries := decodeBody(t, w)["packlists"].([]any)
	require.Len(t, summaries, 1)
	assert.Equal(t, 4.0, summaries[0].(map[string]any)["item_count"])

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("%s/items/%d", base, stove), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Item removed from pack list", decodeBody(t, w)["message"])

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("%s/items/%d", base, stove), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Pack list or item not found", decodeBody(t, w)["error"])

	w = doRequest(t, r, http.MethodPut, base, token, gin.H{"name": "Long Weekend"})
	require.Equal(t, http.StatusOK, w.Code)
	packList := decodeBody(t, w)["packlist"].(map[string]any)
	assert.Equal(t, "Long Weekend", packList["name"])
	assert.Equal(t, "2024-03-15", packList["date"])

	w = doRequest(t, r, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["packlist"].(map[string]any)["items"], 3)

	w = doRequest(t, r, http.MethodDelete, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pack list deleted successfully", decodeBody(t, w)["message"])

	w = doRequest(t, r, http.MethodGet, base, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/gear/%d", tent), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatsHandler(t *testing.T) {
	r, _ := setupTestServer(t)
	token := registerUser(t, r, "hiker@example.com")

	createGear(t, r, token, gin.H{"name": "Tent", "weight": 1500})
	createGear(t, r, token, gin.H{"name": "Beacon", "weight": 220, "inWishlist": true})

	w := doRequest(t, r, http.MethodPost, "/api/packlists", token, gin.H{"name": "Trip"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody(t, w)["stats"].(map[string]any)
	assert.Equal(t, 2.0, stats["totalGear"])
	assert.Equal(t, 1720.0, stats["totalWeight"])
	assert.Equal(t, 1.0, stats["wishlistItems"])
	assert.Equal(t, 1.0, stats["packLists"])
	assert.Len(t, stats["recentPacklists"], 1)
}

func uploadCSV(t *testing.T, r *gin.Engine, token, filename, contents string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/gear/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportExportGear(t *testing.T) {
	r, _ := setupTestServer(t)
	token := registerUser(t, r, "hiker@example.com")

	csvData := strings.Join([]string{
		"Name,Category,Activity Type,Weight (grams),Notes,Wishlist",
		"Stove,Cooking,backpacking,73,Canister,false",
		"Water Filter,,,,,yes",
		`"Tent, 2P",Shelter,,1540,,false`,
	}, "\n")

	w := uploadCSV(t, r, token, "gear.csv", csvData)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 3.0, decodeBody(t, w)["imported"])

	w = doRequest(t, r, http.MethodGet, "/api/wishlist", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	wishlist := decodeBody(t, w)["items"].([]any)
	require.Len(t, wishlist, 1)
	assert.Equal(t, "Water Filter", wishlist[0].(map[string]any)["name"])

	w = doRequest(t, r, http.MethodGet, "/api/categories?activityType=general", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["categories"], 1)

	w = doRequest(t, r, http.MethodGet, "/api/gear/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=gear.csv", w.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Name,Category,Activity Type,Weight (grams),Notes,Wishlist", lines[0])
	assert.Contains(t, w.Body.String(), "Stove,Cooking,backpacking,73,Canister,false")
	assert.Contains(t, w.Body.String(), `"Tent, 2P",Shelter,general,1540,,false`)

	w = uploadCSV(t, r, token, "gear.txt", csvData)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = uploadCSV(t, r, token, "gear.csv", "Name,Category,Activity Type,Weight (grams),Notes,Wishlist\nBad,,,heavy,,false")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "line 2")

	w = doRequest(t, r, http.MethodGet, "/api/gear", token, nil)
	assert.Len(t, decodeBody(t, w)["items"], 3)
}

func TestRegisterPasswordByteLimit(t *testing.T) {
	r, _ := setupTestServer(t)

	tests := []struct {
		name     string
		password string
		status   int
	}{
		{"ascii over 72 bytes", strings.Repeat("a", 100), http.StatusBadRequest},
		{"multibyte over 72 bytes", strings.Repeat("é", 40), http.StatusBadRequest},
		{"exactly 72 bytes", strings.Repeat("a", 72), http.StatusCreated},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
				"email":    fmt.Sprintf("hiker%d@example.com", i),
				"password": tt.password,
			})
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusBadRequest {
				body := decodeBody(t, w)
				assert.Equal(t, "Validation failed", body["error"])
				assert.Equal(t, []any{"password must be at most 72 bytes"}, body["details"])
			}
		})
	}
}

func TestGearWeightMustBeFiniteAndBounded(t *testing.T) {
	r, _ := setupTestServer(t)
	token := registerUser(t, r, "hiker@example.com")
	itemID := createGear(t, r, token, gin.H{"name": "Tent", "weight": 1500})

	w := doRequest(t, r, http.MethodPost, "/api/gear", token, gin.H{"name": "Boulder", "weight": 1e308})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", decodeBody(t, w)["error"])

	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/gear/%d", itemID), token, gin.H{"weight": 1e308})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	header := "Name,Category,Activity Type,Weight (grams),Notes,Wishlist\n"
	for _, weight := range []string{"Inf", "+Inf", "-Inf", "NaN", "1e308"} {
		w = uploadCSV(t, r, token, "gear.csv", header+"Boulder,,,"+weight+",,false")
		assert.Equal(t, http.StatusBadRequest, w.Code, weight)
	}

	w = doRequest(t, r, http.MethodGet, "/api/gear", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["items"], 1)

	w = doRequest(t, r, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1500.0, decodeBody(t, w)["stats"].(map[string]any)["totalWeight"])
}

func TestImportRowLimit(t *testing.T) {
	r, _ := setupTestServer(t)
	token := registerUser(t, r, "hiker@example.com")

	buildCSV := func(rows int) string {
		var b strings.Builder
		b.WriteString("Name,Category,Activity Type,Weight (grams),Notes,Wishlist\n")
		for i := 0; i < rows; i++ {
			fmt.Fprintf(&b, "Item %d,,,1,,false\n", i)
		}
		return b.String()
	}

	w := uploadCSV(t, r, token, "gear.csv", buildCSV(maxImportRows+1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "too many rows")

	w = uploadCSV(t, r, token, "gear.csv", buildCSV(maxImportRows))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(maxImportRows), decodeBody(t, w)["imported"])
}
